package checker

import (
	"math"

	"github.com/kyleking/gh-upstream-watch/internal/gh"
)

// FreshnessLevel classifies how recent the evaluated run is relative to the
// dependency's latest commit.
type FreshnessLevel string

const (
	FreshnessCurrent       FreshnessLevel = "current"
	FreshnessSlightlyStale FreshnessLevel = "slightly_stale"
	FreshnessStale         FreshnessLevel = "stale"
)

// FreshnessVerdict carries the classification and the elapsed hours for
// display.
type FreshnessVerdict struct {
	Level       FreshnessLevel
	HoursBehind float64
}

// DaysBehind is HoursBehind expressed in days.
func (v FreshnessVerdict) DaysBehind() float64 {
	return v.HoursBehind / 24
}

// CompareFreshness classifies the run's age against the dependency's latest
// commit. Nil commit means no comparison is possible and yields nil.
//
// This is a heuristic signal, not a guarantee: a run can classify as
// current yet predate a commit pushed while the job was running.
func CompareFreshness(run gh.WorkflowRun, commit *gh.Commit) *FreshnessVerdict {
	if commit == nil {
		return nil
	}

	diff := run.CreatedAt.Sub(commit.AuthorDate)
	hours := math.Abs(diff.Hours())

	verdict := &FreshnessVerdict{HoursBehind: hours}

	switch {
	case hours <= 24 && !run.CreatedAt.Before(commit.AuthorDate):
		verdict.Level = FreshnessCurrent
	case hours <= 72:
		verdict.Level = FreshnessSlightlyStale
	default:
		verdict.Level = FreshnessStale
	}

	return verdict
}
