// Package display renders a checker result as a terminal report.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kyleking/gh-upstream-watch/internal/checker"
	"github.com/kyleking/gh-upstream-watch/internal/gh"
)

// maxListedFailures caps how many failing tests each category lists before
// collapsing into "and N more".
const maxListedFailures = 3

// RunURL returns the browser URL of a workflow run.
func RunURL(repo string, runID int64) string {
	return fmt.Sprintf("https://github.com/%s/actions/runs/%d", repo, runID)
}

// Render formats the full report. It is a pure function of the result so
// tests never need to capture stdout.
func Render(result *checker.Result, repo, dependency string) string {
	var b strings.Builder

	writePanel(&b, "Most Recent Run With Tests", renderRunSummary(result.Run, repo))
	writePanel(&b, "Upstream-dev Job", renderJobStatus(result.TargetJob))

	if result.VersionFromLogs != "" {
		writePanel(&b, "Version Info",
			SuccessStyle.Render(fmt.Sprintf("%s version tested: %s", dependency, result.VersionFromLogs)))
	}

	if !result.Failures.Empty() {
		writePanel(&b, fmt.Sprintf("Test Failures (%d total)", result.Failures.TotalFailures),
			renderFailures(result.Failures, dependency))
		writePanel(&b, "Failure Analysis", renderFailureAnalysis(result.Failures, dependency))
	} else if result.TargetJob != nil && result.TargetJob.Conclusion == gh.ConclusionFailure {
		writePanel(&b, "Test Failures", WarningStyle.Render(
			"Tests failed, but could not access logs to determine specific failures.\n"+
				"Check the workflow logs manually: "+RunURL(repo, result.Run.ID)))
	}

	if result.Freshness != nil {
		writePanel(&b, "Freshness Check",
			renderFreshness(result.Freshness, result.LatestDependencyCommit, result.Run, dependency))
	}

	writePanel(&b, "Summary", renderSummary(result, dependency))

	return b.String()
}

func writePanel(b *strings.Builder, title, body string) {
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(PanelStyle.Render(body))
	b.WriteString("\n")
}

func renderRunSummary(run gh.WorkflowRun, repo string) string {
	conclusion := run.Conclusion
	if conclusion == "" {
		conclusion = run.Status
	}

	style := WarningStyle

	switch conclusion {
	case gh.ConclusionSuccess:
		style = SuccessStyle
	case gh.ConclusionFailure:
		style = FailureStyle
	}

	rows := [][2]string{
		{"Status", style.Render(conclusion)},
		{"Workflow ID", fmt.Sprintf("%d", run.ID)},
		{"Run Number", fmt.Sprintf("%d", run.Number)},
		{"Branch", run.Branch},
		{"Commit", shortSHA(run.CommitSHA)},
		{"Event Type", run.Event},
		{"Started", run.CreatedAt.Format(time.RFC3339)},
		{"Completed", run.UpdatedAt.Format(time.RFC3339)},
		{"URL", RunURL(repo, run.ID)},
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			LabelStyle.Width(14).Render(row[0]),
			ValueStyle.Render(row[1])))
	}

	return strings.Join(lines, "\n")
}

func renderJobStatus(job *gh.Job) string {
	switch {
	case job == nil:
		return FailureStyle.Render("Upstream-dev job not found in this run")
	case job.Conclusion == gh.ConclusionSkipped:
		return WarningStyle.Render("Upstream-dev job was skipped (tests not triggered)")
	case job.Conclusion == gh.ConclusionSuccess:
		return SuccessStyle.Render("Upstream-dev job ran successfully")
	case job.Conclusion == gh.ConclusionFailure:
		return FailureStyle.Render("Upstream-dev job failed")
	case job.Conclusion != "":
		return WarningStyle.Render("Upstream-dev job: " + job.Conclusion)
	default:
		return WarningStyle.Render("Upstream-dev job status: " + job.Status)
	}
}

func renderFailures(failures checker.FailureReport, dependency string) string {
	var sections []string

	if len(failures.DependencyRelated) > 0 {
		sections = append(sections, fmt.Sprintf("%s (%d)\n%s",
			FailureStyle.Render(capitalize(dependency)+"-related"),
			len(failures.DependencyRelated),
			ValueStyle.Render(truncateList(failures.DependencyRelated))))
	}

	if len(failures.OtherFailures) > 0 {
		sections = append(sections, fmt.Sprintf("%s (%d)\n%s",
			WarningStyle.Render("Other upstream"),
			len(failures.OtherFailures),
			ValueStyle.Render(truncateList(failures.OtherFailures))))
	}

	if len(failures.ErrorTypes) > 0 {
		sections = append(sections, fmt.Sprintf("%s\n%s",
			LabelStyle.Render("Error types"),
			ValueStyle.Render(strings.Join(failures.ErrorTypes, ", "))))
	}

	return strings.Join(sections, "\n\n")
}

func renderFailureAnalysis(failures checker.FailureReport, dependency string) string {
	hasDep := len(failures.DependencyRelated) > 0
	hasOther := len(failures.OtherFailures) > 0

	switch {
	case hasDep && !hasOther:
		return WarningStyle.Render("All failures appear to be " + dependency + "-related")
	case hasOther && !hasDep:
		return ValueStyle.Render("All failures appear to be from other upstream dependencies")
	case hasDep && hasOther:
		return WarningStyle.Render("Mixed failures: both " + dependency + " and other upstream issues")
	default:
		return FailureStyle.Render("Could not categorize test failures")
	}
}

func renderFreshness(verdict *checker.FreshnessVerdict, commit *gh.Commit, run gh.WorkflowRun, dependency string) string {
	var headline string

	switch verdict.Level {
	case checker.FreshnessCurrent:
		headline = SuccessStyle.Render("Workflow is current with latest " + dependency + " commits")
	case checker.FreshnessSlightlyStale:
		headline = WarningStyle.Render(fmt.Sprintf(
			"Workflow may be slightly outdated (%.1f hours behind %s)", verdict.HoursBehind, dependency))
	default:
		headline = FailureStyle.Render(fmt.Sprintf(
			"Workflow appears outdated (%.1f days behind %s)", verdict.DaysBehind(), dependency))
	}

	lines := []string{headline}
	if commit != nil {
		lines = append(lines, LabelStyle.Render(fmt.Sprintf("Latest %s commit: %s (%s)",
			dependency, shortSHA(commit.SHA), commit.AuthorDate.Format(time.RFC3339))))
	}

	lines = append(lines, LabelStyle.Render("Workflow started: "+run.CreatedAt.Format(time.RFC3339)))

	return strings.Join(lines, "\n")
}

func renderSummary(result *checker.Result, dependency string) string {
	switch {
	case result.TestsActuallyRan() && result.TargetJob.Conclusion == gh.ConclusionSuccess:
		if result.VersionFromLogs != "" {
			return SuccessStyle.Render(fmt.Sprintf(
				"All upstream-dev tests passed with %s %s", dependency, result.VersionFromLogs))
		}

		return SuccessStyle.Render(fmt.Sprintf(
			"All upstream-dev tests passed (%s version not detected)", dependency))
	case result.TestsActuallyRan():
		return FailureStyle.Render("Upstream-dev tests ran but failed")
	default:
		return WarningStyle.Render("Upstream-dev tests were skipped (likely no changes detected)")
	}
}

func truncateList(items []string) string {
	shown := items
	if len(shown) > maxListedFailures {
		shown = shown[:maxListedFailures]
	}

	out := strings.Join(shown, "\n")
	if len(items) > maxListedFailures {
		out += fmt.Sprintf("\n... and %d more", len(items)-maxListedFailures)
	}

	return out
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}

	return sha
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
