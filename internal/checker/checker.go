// Package checker implements the run-selection and evidence-extraction
// pipeline: finding the most recent workflow run where the upstream-dev
// job actually executed, mining its logs for the dependency version and
// test failures, and judging freshness against the dependency's latest
// commit.
package checker

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kyleking/gh-upstream-watch/internal/gh"
)

// Test-domain terms that implicate the dependency when they appear in a
// failing test id, beyond the dependency's own name.
var builtinKeywords = []string{
	"chunk",
	"codec",
	"storage",
	"blosc",
	"zlib",
	"gzip",
	"compression",
	"array_api",
	"buffer",
}

// Options configures a Checker.
type Options struct {
	// DependencyRepo is the owner/repo of the tracked dependency.
	DependencyRepo string
	// DependencyName is the name the dependency goes by in logs.
	DependencyName string
	// DefaultBranch is the watched repository's default branch.
	DefaultBranch string
	// DependencyBranch is the dependency branch to compare freshness against.
	DependencyBranch string
	// ExtraKeywords extends the built-in failure classification keywords.
	ExtraKeywords []string
}

// Result is the aggregate outcome of one check, consumed by the display
// layer. All nullable fields are best-effort.
type Result struct {
	Run                    gh.WorkflowRun
	TriggerDetectionJob    *gh.Job
	TargetJob              *gh.Job
	VersionFromLogs        string
	Failures               FailureReport
	LatestDependencyCommit *gh.Commit
	Freshness              *FreshnessVerdict
}

// TestsActuallyRan reports whether the target job genuinely executed.
func (r *Result) TestsActuallyRan() bool {
	return r.TargetJob != nil && r.TargetJob.Executed()
}

// Checker drives the pipeline against a Gateway.
type Checker struct {
	gw              gh.Gateway
	opts            Options
	log             zerolog.Logger
	versionMatchers []*regexp.Regexp
	keywords        []string
}

// New creates a Checker. Warnings for degraded fetches go to log; the
// checker itself never writes to the terminal.
func New(gw gh.Gateway, opts Options, log zerolog.Logger) *Checker {
	keywords := make([]string, 0, len(builtinKeywords)+len(opts.ExtraKeywords)+1)
	if opts.DependencyName != "" {
		keywords = append(keywords, strings.ToLower(opts.DependencyName))
	}

	keywords = append(keywords, builtinKeywords...)

	for _, kw := range opts.ExtraKeywords {
		if kw != "" {
			keywords = append(keywords, strings.ToLower(kw))
		}
	}

	return &Checker{
		gw:              gw,
		opts:            opts,
		log:             log,
		versionMatchers: NewVersionMatchers(opts.DependencyName),
		keywords:        keywords,
	}
}

// Check runs the full pipeline and assembles the result. Only run selection
// can fail; every other fetch degrades to an absent field with a warning.
func (c *Checker) Check() (*Result, error) {
	run, err := c.SelectEvaluatedRun()
	if err != nil {
		return nil, err
	}

	result := &Result{Run: run}

	jobs, err := c.gw.ListJobs(run.ID)
	if err != nil {
		c.log.Warn().Int64("run", run.ID).Err(err).Msg("could not get jobs for selected run")

		jobs = nil
	}

	result.TriggerDetectionJob = FindTriggerDetectionJob(jobs)
	result.TargetJob = FindTargetJob(jobs)

	if result.TargetJob != nil {
		c.mineLogs(result)
	}

	commit, err := c.gw.LatestCommit(c.opts.DependencyRepo, c.opts.DependencyBranch)
	if err != nil {
		c.log.Warn().Err(err).Msg("could not fetch latest dependency commit")
	} else {
		result.LatestDependencyCommit = commit
	}

	result.Freshness = CompareFreshness(run, result.LatestDependencyCommit)

	return result, nil
}

// mineLogs fetches the target job's log once and feeds it to both the
// version and the failure extractors. Inaccessible logs are a warning, not
// an error: the report then shows the version as undetected and, for a
// failed job, points at the workflow URL instead of listing failures.
func (c *Checker) mineLogs(result *Result) {
	job := result.TargetJob

	c.log.Debug().Int64("job", job.ID).Msg("fetching upstream-dev job logs")

	logText, err := c.gw.JobLogs(job.ID)
	if err != nil {
		c.log.Warn().Int64("job", job.ID).Err(err).Msg("could not access job logs")
		return
	}

	clean := StripANSI(logText)

	result.VersionFromLogs = ExtractVersion(clean, c.versionMatchers)
	if result.VersionFromLogs != "" {
		c.log.Debug().Str("version", result.VersionFromLogs).Msg("found dependency version in logs")
	}

	if job.Conclusion == gh.ConclusionFailure {
		result.Failures = ExtractFailures(clean, c.keywords)
		c.log.Debug().
			Int("failures", result.Failures.TotalFailures).
			Int("error_types", len(result.Failures.ErrorTypes)).
			Msg("extracted test failures")
	}
}
