package checker

import (
	"errors"
	"sort"

	"github.com/kyleking/gh-upstream-watch/internal/gh"
)

// ErrNoRunsFound means the provider returned zero runs at every search
// tier; there is nothing to evaluate.
var ErrNoRunsFound = errors.New("no workflow runs found")

const (
	priorityTierLimit = 5
	fallbackTierLimit = 20
)

// SelectEvaluatedRun picks the run whose upstream-dev job most recently
// executed for real.
//
// Scheduled and manually dispatched runs are configured to always run the
// upstream suite, while pull-request runs usually skip it via a path
// filter, so naively taking the latest run would report a skipped job.
// The search therefore goes: scheduled/dispatch runs first (newest first
// across both events), then the default branch's recent runs, then as a
// last resort the most recent run unconditionally so the caller can report
// "tests did not run".
func (c *Checker) SelectEvaluatedRun() (gh.WorkflowRun, error) {
	if run, ok := c.selectPriorityRun(); ok {
		return run, nil
	}

	c.log.Debug().Msg("no scheduled/dispatch runs with executed tests, searching recent runs")

	runs, err := c.gw.ListRuns(gh.RunListOptions{Branch: c.opts.DefaultBranch, Limit: fallbackTierLimit})
	if err != nil {
		return gh.WorkflowRun{}, err
	}

	if len(runs) == 0 {
		return gh.WorkflowRun{}, ErrNoRunsFound
	}

	for _, run := range runs {
		jobs, err := c.gw.ListJobs(run.ID)
		if err != nil {
			c.log.Warn().Int64("run", run.ID).Err(err).Msg("could not get jobs for run")
			continue
		}

		if target := FindTargetJob(jobs); target != nil && target.Executed() {
			c.log.Debug().Int64("run", run.ID).Str("event", run.Event).Msg("found run with executed tests")
			return run, nil
		}
	}

	// No run actually executed the suite; surface the most recent one so
	// the report can say the tests did not run.
	c.log.Warn().Msg("no runs found where upstream-dev tests actually executed, using most recent run")

	return runs[0], nil
}

// selectPriorityRun scans scheduled and workflow_dispatch runs, newest
// first, for one whose target job concluded success or failure. A skipped,
// cancelled, or still-pending target job disqualifies the run.
func (c *Checker) selectPriorityRun() (gh.WorkflowRun, bool) {
	var candidates []gh.WorkflowRun

	for _, event := range []string{gh.EventSchedule, gh.EventWorkflowDispatch} {
		runs, err := c.gw.ListRuns(gh.RunListOptions{Event: event, Limit: priorityTierLimit})
		if err != nil {
			c.log.Warn().Str("event", event).Err(err).Msg("could not list runs")
			continue
		}

		candidates = append(candidates, runs...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})

	for _, run := range candidates {
		jobs, err := c.gw.ListJobs(run.ID)
		if err != nil {
			c.log.Warn().Int64("run", run.ID).Err(err).Msg("could not get jobs for run")
			continue
		}

		target := FindTargetJob(jobs)
		if target == nil {
			c.log.Debug().Int64("run", run.ID).Msg("no upstream-dev job found")
			continue
		}

		c.log.Debug().Int64("run", run.ID).Str("conclusion", target.Conclusion).Msg("upstream-dev job found")

		if target.Executed() {
			return run, true
		}
	}

	return gh.WorkflowRun{}, false
}
