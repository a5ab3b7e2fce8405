package exec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MockExecutor simulates command execution for testing.
type MockExecutor struct {
	// Commands maps command patterns to responses.
	// Key format: "command arg1 arg2"
	Commands map[string]*CommandResult

	// DefaultResult is returned when no specific command matches.
	DefaultResult *CommandResult

	// ExecutedCommands tracks all commands that were executed.
	ExecutedCommands []ExecutedCommand
}

// CommandResult represents the result of a command execution.
type CommandResult struct {
	Stdout string
	Stderr string
	Error  error
}

// ExecutedCommand tracks a command that was executed.
type ExecutedCommand struct {
	Name string
	Args []string
}

// NewMockExecutor creates a new mock executor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands:         make(map[string]*CommandResult),
		ExecutedCommands: make([]ExecutedCommand, 0),
	}
}

// Execute simulates command execution by looking up the command in the Commands map.
func (m *MockExecutor) Execute(name string, args ...string) (string, string, error) {
	m.ExecutedCommands = append(m.ExecutedCommands, ExecutedCommand{
		Name: name,
		Args: args,
	})

	cmdKey := m.buildCommandKey(name, args)

	if result, ok := m.Commands[cmdKey]; ok {
		return result.Stdout, result.Stderr, result.Error
	}

	// Look for pattern match (allows wildcards)
	for pattern, result := range m.Commands {
		if m.matchesPattern(cmdKey, pattern) {
			return result.Stdout, result.Stderr, result.Error
		}
	}

	if m.DefaultResult != nil {
		return m.DefaultResult.Stdout, m.DefaultResult.Stderr, m.DefaultResult.Error
	}

	return "", "", fmt.Errorf("mock executor: no result configured for command: %s", cmdKey)
}

// AddCommand registers a command response.
func (m *MockExecutor) AddCommand(name string, args []string, stdout, stderr string, err error) {
	cmdKey := m.buildCommandKey(name, args)
	m.Commands[cmdKey] = &CommandResult{
		Stdout: stdout,
		Stderr: stderr,
		Error:  err,
	}
}

// Reset clears all command history and configurations.
func (m *MockExecutor) Reset() {
	m.Commands = make(map[string]*CommandResult)
	m.ExecutedCommands = make([]ExecutedCommand, 0)
	m.DefaultResult = nil
}

// AddGHRunList mocks a gh run list invocation, matching any flag ordering
// for the given repo via wildcards on the variable positions.
func (m *MockExecutor) AddGHRunList(repo, workflow, event string, limit int, runsJSON string) {
	args := []string{"run", "list", "--repo", repo, "--workflow", workflow}
	if event != "" {
		args = append(args, "--event", event)
	}

	args = append(args, "--limit", strconv.Itoa(limit), "--json", "*")
	m.AddCommand("gh", args, runsJSON, "", nil)
}

// AddGHRunListBranch mocks a branch-filtered gh run list invocation.
func (m *MockExecutor) AddGHRunListBranch(repo, workflow, branch string, limit int, runsJSON string) {
	args := []string{
		"run", "list", "--repo", repo, "--workflow", workflow,
		"--branch", branch, "--limit", strconv.Itoa(limit), "--json", "*",
	}
	m.AddCommand("gh", args, runsJSON, "", nil)
}

// AddGHRunViewJobs mocks gh run view <id> --json jobs.
func (m *MockExecutor) AddGHRunViewJobs(repo string, runID int64, jobsJSON string) {
	args := []string{"run", "view", strconv.FormatInt(runID, 10), "--repo", repo, "--json", "jobs"}
	m.AddCommand("gh", args, jobsJSON, "", nil)
}

// AddGHAPIJobLogs mocks the raw job log endpoint.
func (m *MockExecutor) AddGHAPIJobLogs(repo string, jobID int64, logText string) {
	path := fmt.Sprintf("repos/%s/actions/jobs/%d/logs", repo, jobID)
	m.AddCommand("gh", []string{"api", path}, logText, "", nil)
}

// AddGHAPIJobLogsError mocks a failing job log fetch.
func (m *MockExecutor) AddGHAPIJobLogsError(repo string, jobID int64, stderr string, err error) {
	path := fmt.Sprintf("repos/%s/actions/jobs/%d/logs", repo, jobID)
	m.AddCommand("gh", []string{"api", path}, "", stderr, err)
}

// AddGHAPICommits mocks the branch-head commit listing.
func (m *MockExecutor) AddGHAPICommits(repo, branch, commitsJSON string) {
	path := fmt.Sprintf("repos/%s/commits?sha=%s&per_page=1", repo, branch)
	m.AddCommand("gh", []string{"api", path}, commitsJSON, "", nil)
}

// AddGHAPIWorkflows mocks the workflow listing endpoint.
func (m *MockExecutor) AddGHAPIWorkflows(repo, workflowsJSON string) {
	path := fmt.Sprintf("repos/%s/actions/workflows", repo)
	m.AddCommand("gh", []string{"api", path}, workflowsJSON, "", nil)
}

// AddGHVersion mocks the gh --version command.
func (m *MockExecutor) AddGHVersion(version string) {
	m.AddCommand("gh", []string{"--version"}, fmt.Sprintf("gh version %s (2024-01-01)", version), "", nil)
}

// AddGHAuthStatus mocks the gh auth status command.
func (m *MockExecutor) AddGHAuthStatus(authenticated bool, username string) {
	if authenticated {
		m.AddCommand("gh", []string{"auth", "status"}, "✓ Logged in to github.com as "+username, "", nil)
	} else {
		m.AddCommand("gh", []string{"auth", "status"}, "", "You are not logged in", errors.New("exit status 1"))
	}
}

// buildCommandKey creates a string key from command name and args.
func (m *MockExecutor) buildCommandKey(name string, args []string) string {
	parts := append([]string{name}, args...)
	return strings.Join(parts, " ")
}

// matchesPattern checks if a command matches a pattern (simple wildcard support).
func (m *MockExecutor) matchesPattern(cmd, pattern string) bool {
	// Simple wildcard matching: * matches any segment
	if !strings.Contains(pattern, "*") {
		return cmd == pattern
	}

	patternParts := strings.Split(pattern, " ")
	cmdParts := strings.Split(cmd, " ")

	if len(patternParts) != len(cmdParts) {
		return false
	}

	for i, pp := range patternParts {
		if pp == "*" {
			continue
		}

		if pp != cmdParts[i] {
			return false
		}
	}

	return true
}
