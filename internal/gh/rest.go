package gh

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
)

// RESTGateway talks to the GitHub REST API directly via go-gh, for
// environments without a usable gh binary. Authentication comes from the
// usual go-gh sources (GH_TOKEN, GITHUB_TOKEN, gh config).
type RESTGateway struct {
	rest     *api.RESTClient
	repo     string
	workflow string
}

// NewRESTGateway creates a REST-backed gateway for the given watched
// repository and workflow file.
func NewRESTGateway(repo, workflow string) (*RESTGateway, error) {
	rest, err := api.DefaultRESTClient()
	if err != nil {
		return nil, &AuthError{Hint: "set GH_TOKEN or run: gh auth login", Err: err}
	}

	return newRESTGateway(rest, repo, workflow), nil
}

func newRESTGateway(rest *api.RESTClient, repo, workflow string) *RESTGateway {
	return &RESTGateway{rest: rest, repo: repo, workflow: workflow}
}

// restRun mirrors the REST API field names for a workflow run.
type restRun struct {
	ID         int64     `json:"id"`
	RunNumber  int       `json:"run_number"`
	HeadBranch string    `json:"head_branch"`
	HeadSha    string    `json:"head_sha"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Event      string    `json:"event"`
	Path       string    `json:"path"`
}

// ListRuns lists workflow runs, filtered client-side to the configured
// workflow file since the generic runs endpoint spans all workflows.
func (g *RESTGateway) ListRuns(opts RunListOptions) ([]WorkflowRun, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(opts.Limit))

	if opts.Event != "" {
		params.Set("event", opts.Event)
	}

	if opts.Branch != "" {
		params.Set("branch", opts.Branch)
	}

	path := fmt.Sprintf("repos/%s/actions/runs?%s", g.repo, params.Encode())

	var resp struct {
		WorkflowRuns []restRun `json:"workflow_runs"`
	}
	if err := g.get(path, "list workflow runs", &resp); err != nil {
		return nil, err
	}

	runs := make([]WorkflowRun, 0, len(resp.WorkflowRuns))

	for _, r := range resp.WorkflowRuns {
		if !pathMatchesWorkflow(r.Path, g.workflow) {
			continue
		}

		runs = append(runs, WorkflowRun{
			ID:         r.ID,
			Number:     r.RunNumber,
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

// ListJobs lists the jobs of a run.
func (g *RESTGateway) ListJobs(runID int64) ([]Job, error) {
	path := fmt.Sprintf("repos/%s/actions/runs/%d/jobs", g.repo, runID)

	var resp struct {
		Jobs []struct {
			ID         int64  `json:"id"`
			Name       string `json:"name"`
			Status     string `json:"status"`
			Conclusion string `json:"conclusion"`
		} `json:"jobs"`
	}
	if err := g.get(path, "list run jobs", &resp); err != nil {
		return nil, err
	}

	jobs := make([]Job, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		jobs = append(jobs, Job{
			ID:         j.ID,
			Name:       j.Name,
			Status:     j.Status,
			Conclusion: j.Conclusion,
		})
	}

	return jobs, nil
}

// JobLogs fetches raw job log text. The endpoint redirects to a storage
// URL; the underlying HTTP client follows it.
func (g *RESTGateway) JobLogs(jobID int64) (string, error) {
	path := fmt.Sprintf("repos/%s/actions/jobs/%d/logs", g.repo, jobID)

	resp, err := g.rest.Request("GET", path, nil)
	if err != nil {
		return "", &TransportError{Op: "fetch job logs", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Op: "fetch job logs", Err: fmt.Errorf("failed to read response: %w", err)}
	}

	return string(body), nil
}

// LatestCommit returns the head commit of a branch, or (nil, nil) when the
// branch has no commits.
func (g *RESTGateway) LatestCommit(repo, branch string) (*Commit, error) {
	path := fmt.Sprintf("repos/%s/commits?sha=%s&per_page=1", repo, url.QueryEscape(branch))

	var raw []struct {
		SHA    string `json:"sha"`
		Commit struct {
			Author struct {
				Date time.Time `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	}
	if err := g.get(path, "fetch latest commit", &raw); err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, nil
	}

	return &Commit{SHA: raw[0].SHA, AuthorDate: raw[0].Commit.Author.Date}, nil
}

// ListWorkflows lists the workflow files registered in the watched repository.
func (g *RESTGateway) ListWorkflows() ([]Workflow, error) {
	path := fmt.Sprintf("repos/%s/actions/workflows", g.repo)

	var resp struct {
		Workflows []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Path string `json:"path"`
		} `json:"workflows"`
	}
	if err := g.get(path, "list workflows", &resp); err != nil {
		return nil, err
	}

	workflows := make([]Workflow, 0, len(resp.Workflows))
	for _, w := range resp.Workflows {
		workflows = append(workflows, Workflow{ID: w.ID, Name: w.Name, Path: w.Path})
	}

	return workflows, nil
}

func (g *RESTGateway) get(path, op string, out any) error {
	resp, err := g.rest.Request("GET", path, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	return nil
}

// pathMatchesWorkflow reports whether a run's workflow path refers to the
// configured workflow file, tolerating the .github/workflows/ prefix.
func pathMatchesWorkflow(runPath, workflow string) bool {
	if workflow == "" {
		return true
	}

	return runPath == workflow || runPath == ".github/workflows/"+workflow ||
		len(runPath) > len(workflow) && runPath[len(runPath)-len(workflow):] == workflow
}
