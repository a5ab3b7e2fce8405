package checker_test

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/kyleking/gh-upstream-watch/internal/checker"
	"github.com/kyleking/gh-upstream-watch/internal/gh"
)

// fakeGateway is an in-memory Gateway for pipeline tests.
type fakeGateway struct {
	runsByEvent map[string][]gh.WorkflowRun
	branchRuns  []gh.WorkflowRun
	jobsByRun   map[int64][]gh.Job
	logsByJob   map[int64]string
	commit      *gh.Commit
	workflows   []gh.Workflow

	listRunsErr  error
	jobsErrByRun map[int64]error
	logsErrByJob map[int64]error
	commitErr    error
}

func (f *fakeGateway) ListRuns(opts gh.RunListOptions) ([]gh.WorkflowRun, error) {
	if f.listRunsErr != nil {
		return nil, f.listRunsErr
	}

	if opts.Event != "" {
		return f.runsByEvent[opts.Event], nil
	}

	return f.branchRuns, nil
}

func (f *fakeGateway) ListJobs(runID int64) ([]gh.Job, error) {
	if err, ok := f.jobsErrByRun[runID]; ok {
		return nil, err
	}

	return f.jobsByRun[runID], nil
}

func (f *fakeGateway) JobLogs(jobID int64) (string, error) {
	if err, ok := f.logsErrByJob[jobID]; ok {
		return "", err
	}

	if logs, ok := f.logsByJob[jobID]; ok {
		return logs, nil
	}

	return "", errors.New("no logs configured for job")
}

func (f *fakeGateway) LatestCommit(repo, branch string) (*gh.Commit, error) {
	if f.commitErr != nil {
		return nil, f.commitErr
	}

	return f.commit, nil
}

func (f *fakeGateway) ListWorkflows() ([]gh.Workflow, error) {
	return f.workflows, nil
}

func newTestChecker(gw gh.Gateway) *checker.Checker {
	return checker.New(gw, checker.Options{
		DependencyRepo:   "zarr-developers/zarr-python",
		DependencyName:   "zarr",
		DefaultBranch:    "main",
		DependencyBranch: "main",
	}, zerolog.Nop())
}
