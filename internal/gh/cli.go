package gh

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kyleking/gh-upstream-watch/internal/exec"
)

// runListFields is the --json field list for gh run list.
const runListFields = "databaseId,number,headBranch,headSha,status,conclusion,createdAt,updatedAt,event"

// CLIGateway drives the gh binary. It assumes gh is installed and
// authenticated; DetectGateway verifies that before choosing it.
type CLIGateway struct {
	executor exec.CommandExecutor
	repo     string
	workflow string
}

// NewCLIGateway creates a gateway for the given watched repository and
// workflow file, backed by the real gh binary.
func NewCLIGateway(repo, workflow string) *CLIGateway {
	return NewCLIGatewayWithExecutor(repo, workflow, exec.NewRealExecutor())
}

// NewCLIGatewayWithExecutor creates a gateway with a custom executor (for testing).
func NewCLIGatewayWithExecutor(repo, workflow string, executor exec.CommandExecutor) *CLIGateway {
	return &CLIGateway{
		executor: executor,
		repo:     repo,
		workflow: workflow,
	}
}

// cliRun mirrors the gh CLI --json field names.
type cliRun struct {
	DatabaseID int64     `json:"databaseId"`
	Number     int       `json:"number"`
	HeadBranch string    `json:"headBranch"`
	HeadSha    string    `json:"headSha"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Event      string    `json:"event"`
}

type cliJob struct {
	DatabaseID int64  `json:"databaseId"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
}

type cliJobsResponse struct {
	Jobs []cliJob `json:"jobs"`
}

// ListRuns lists workflow runs via gh run list.
func (g *CLIGateway) ListRuns(opts RunListOptions) ([]WorkflowRun, error) {
	args := []string{"run", "list", "--repo", g.repo, "--workflow", g.workflow}
	if opts.Event != "" {
		args = append(args, "--event", opts.Event)
	}

	if opts.Branch != "" {
		args = append(args, "--branch", opts.Branch)
	}

	args = append(args, "--limit", strconv.Itoa(opts.Limit), "--json", runListFields)

	stdout, err := g.run(args, "list workflow runs")
	if err != nil {
		return nil, err
	}

	var raw []cliRun
	if err := json.Unmarshal([]byte(stdout), &raw); err != nil {
		return nil, &TransportError{Op: "list workflow runs", Err: fmt.Errorf("invalid JSON from gh: %w", err)}
	}

	runs := make([]WorkflowRun, 0, len(raw))
	for _, r := range raw {
		runs = append(runs, WorkflowRun{
			ID:         r.DatabaseID,
			Number:     r.Number,
			Branch:     r.HeadBranch,
			CommitSHA:  r.HeadSha,
			Status:     r.Status,
			Conclusion: r.Conclusion,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
			Event:      r.Event,
		})
	}

	return runs, nil
}

// ListJobs lists the jobs of a run via gh run view.
func (g *CLIGateway) ListJobs(runID int64) ([]Job, error) {
	args := []string{"run", "view", strconv.FormatInt(runID, 10), "--repo", g.repo, "--json", "jobs"}

	stdout, err := g.run(args, "list run jobs")
	if err != nil {
		return nil, err
	}

	var resp cliJobsResponse
	if err := json.Unmarshal([]byte(stdout), &resp); err != nil {
		return nil, &TransportError{Op: "list run jobs", Err: fmt.Errorf("invalid JSON from gh: %w", err)}
	}

	jobs := make([]Job, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		jobs = append(jobs, Job{
			ID:         j.DatabaseID,
			Name:       j.Name,
			Status:     j.Status,
			Conclusion: j.Conclusion,
		})
	}

	return jobs, nil
}

// JobLogs fetches raw job log text. gh run view --log munges the output, so
// the raw API endpoint is used even on the CLI transport.
func (g *CLIGateway) JobLogs(jobID int64) (string, error) {
	path := fmt.Sprintf("repos/%s/actions/jobs/%d/logs", g.repo, jobID)

	stdout, err := g.run([]string{"api", path}, "fetch job logs")
	if err != nil {
		return "", err
	}

	return stdout, nil
}

// LatestCommit returns the head commit of a branch, or (nil, nil) when the
// branch has no commits.
func (g *CLIGateway) LatestCommit(repo, branch string) (*Commit, error) {
	path := fmt.Sprintf("repos/%s/commits?sha=%s&per_page=1", repo, branch)

	stdout, err := g.run([]string{"api", path}, "fetch latest commit")
	if err != nil {
		return nil, err
	}

	var raw []struct {
		SHA    string `json:"sha"`
		Commit struct {
			Author struct {
				Date time.Time `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	}
	if err := json.Unmarshal([]byte(stdout), &raw); err != nil {
		return nil, &TransportError{Op: "fetch latest commit", Err: fmt.Errorf("invalid JSON from gh: %w", err)}
	}

	if len(raw) == 0 {
		return nil, nil
	}

	return &Commit{SHA: raw[0].SHA, AuthorDate: raw[0].Commit.Author.Date}, nil
}

// ListWorkflows lists the workflow files registered in the watched repository.
func (g *CLIGateway) ListWorkflows() ([]Workflow, error) {
	path := fmt.Sprintf("repos/%s/actions/workflows", g.repo)

	stdout, err := g.run([]string{"api", path}, "list workflows")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Workflows []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Path string `json:"path"`
		} `json:"workflows"`
	}
	if err := json.Unmarshal([]byte(stdout), &resp); err != nil {
		return nil, &TransportError{Op: "list workflows", Err: fmt.Errorf("invalid JSON from gh: %w", err)}
	}

	workflows := make([]Workflow, 0, len(resp.Workflows))
	for _, w := range resp.Workflows {
		workflows = append(workflows, Workflow{ID: w.ID, Name: w.Name, Path: w.Path})
	}

	return workflows, nil
}

func (g *CLIGateway) run(args []string, op string) (string, error) {
	stdout, stderr, err := g.executor.Execute("gh", args...)
	if err != nil {
		lower := strings.ToLower(stderr)
		if strings.Contains(lower, "authentication") || strings.Contains(lower, "not logged in") {
			return "", &AuthError{Hint: "run: gh auth login", Err: err}
		}

		return "", &TransportError{Op: op, Err: fmt.Errorf("%w (stderr: %s)", err, strings.TrimSpace(stderr))}
	}

	return stdout, nil
}
