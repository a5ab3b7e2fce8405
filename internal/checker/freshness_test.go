package checker_test

import (
	"testing"
	"time"

	"github.com/kyleking/gh-upstream-watch/internal/checker"
	"github.com/kyleking/gh-upstream-watch/internal/gh"
)

func TestCompareFreshness(t *testing.T) {
	runAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	run := gh.WorkflowRun{CreatedAt: runAt}

	tests := []struct {
		name      string
		commitAge time.Duration
		want      checker.FreshnessLevel
	}{
		{name: "commit 10h before run is current", commitAge: 10 * time.Hour, want: checker.FreshnessCurrent},
		{name: "commit 50h before run is slightly stale", commitAge: 50 * time.Hour, want: checker.FreshnessSlightlyStale},
		{name: "commit 200h before run is stale", commitAge: 200 * time.Hour, want: checker.FreshnessStale},
		{name: "boundary at 24h is current", commitAge: 24 * time.Hour, want: checker.FreshnessCurrent},
		{name: "boundary at 72h is slightly stale", commitAge: 72 * time.Hour, want: checker.FreshnessSlightlyStale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commit := &gh.Commit{SHA: "abc123", AuthorDate: runAt.Add(-tt.commitAge)}

			verdict := checker.CompareFreshness(run, commit)
			if verdict == nil {
				t.Fatal("expected verdict, got nil")
			}

			if verdict.Level != tt.want {
				t.Errorf("Level = %q, want %q", verdict.Level, tt.want)
			}

			wantHours := tt.commitAge.Hours()
			if verdict.HoursBehind != wantHours {
				t.Errorf("HoursBehind = %v, want %v", verdict.HoursBehind, wantHours)
			}
		})
	}
}

func TestCompareFreshnessCommitAfterRun(t *testing.T) {
	runAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	run := gh.WorkflowRun{CreatedAt: runAt}

	// A commit newer than the run can never be "current", even within 24h.
	commit := &gh.Commit{SHA: "abc123", AuthorDate: runAt.Add(10 * time.Hour)}

	verdict := checker.CompareFreshness(run, commit)
	if verdict == nil {
		t.Fatal("expected verdict, got nil")
	}

	if verdict.Level != checker.FreshnessSlightlyStale {
		t.Errorf("Level = %q, want %q", verdict.Level, checker.FreshnessSlightlyStale)
	}
}

func TestCompareFreshnessNoCommit(t *testing.T) {
	run := gh.WorkflowRun{CreatedAt: time.Now()}

	if verdict := checker.CompareFreshness(run, nil); verdict != nil {
		t.Errorf("expected nil verdict, got %+v", verdict)
	}
}
