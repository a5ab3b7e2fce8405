package checker

import (
	"regexp"
	"sort"
	"strings"
)

// FailureReport summarizes the FAILED lines mined from a job log. Order of
// appearance is preserved and duplicates count toward TotalFailures.
type FailureReport struct {
	DependencyRelated []string
	OtherFailures     []string
	ErrorTypes        []string
	TotalFailures     int
}

// Empty reports whether no failures were extracted.
func (r FailureReport) Empty() bool {
	return r.TotalFailures == 0
}

// Terminal capture sometimes loses the ESC byte, leaving a bare "[0;31m" in
// the text, so both forms are stripped.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m|\[[0-9;]*m`)

// StripANSI removes terminal color-escape sequences from log text.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// NewVersionMatchers builds the ordered version-extraction patterns for a
// dependency. Each is an independent matcher; priority is the slice order.
// The shapes cover conda-style listings ("zarr: 3.1.3.dev23+g62d1a6abc",
// "zarr 2.18.3") and pip install output ("Successfully installed
// zarr-python-2.18.3").
func NewVersionMatchers(dependency string) []*regexp.Regexp {
	dep := regexp.QuoteMeta(strings.ToLower(dependency))
	const version = `(\d+\.\d+\.\d+(?:[.\w\-+]+)?)`

	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)` + dep + `:\s+` + version),
		regexp.MustCompile(`(?i)` + dep + `\s+` + version),
		regexp.MustCompile(`(?i)Installing.*` + dep + `[_-]?python?.*?` + version),
		regexp.MustCompile(`(?i)(?:Successfully installed|Requirement already satisfied).*` + dep + `[_-]?python?[^\d]*` + version),
	}
}

// ExtractVersion applies the matchers in priority order and returns the
// first pattern's capture. When a pattern matches several times the most
// frequent capture wins, first-encountered on ties. Returns "" when nothing
// matches, which is expected when the dependency was not separately logged.
func ExtractVersion(log string, matchers []*regexp.Regexp) string {
	for _, m := range matchers {
		matches := m.FindAllStringSubmatch(log, -1)
		if len(matches) == 0 {
			continue
		}

		counts := make(map[string]int, len(matches))

		var order []string

		for _, match := range matches {
			v := match[1]
			if counts[v] == 0 {
				order = append(order, v)
			}

			counts[v]++
		}

		best := order[0]
		for _, v := range order {
			if counts[v] > counts[best] {
				best = v
			}
		}

		return best
	}

	return ""
}

var (
	// pytest failure marker: "FAILED <test id> - <error>". The id keeps its
	// :: separators and stops before the " - " delimiter when present.
	failedTestPattern = regexp.MustCompile(`(?i)FAILED\s+([^:\n]+::[^\-\n]+)`)

	// Error types stated after the " - " delimiter. Bare asserts are
	// normalized to AssertionError.
	errorTypePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)FAILED\s+[^\-\n]+ - (\w+(?:Error|Exception)):`),
		regexp.MustCompile(`(?i)FAILED\s+[^\-\n]+ - (assert)`),
	}
)

// ExtractFailures mines FAILED lines out of raw log text and partitions
// them into dependency-related and other failures based on the keyword
// list. Error types are aggregated across the whole log, not attributed to
// individual tests, and the aggregate set is appended to every display
// name.
func ExtractFailures(log string, keywords []string) FailureReport {
	clean := StripANSI(log)

	var testNames []string

	for _, match := range failedTestPattern.FindAllStringSubmatch(clean, -1) {
		testNames = append(testNames, strings.TrimSpace(match[1]))
	}

	errorTypes := make(map[string]struct{})

	for _, p := range errorTypePatterns {
		for _, match := range p.FindAllStringSubmatch(clean, -1) {
			errorTypes[match[1]] = struct{}{}
		}
	}

	for t := range errorTypes {
		if strings.EqualFold(t, "assert") {
			delete(errorTypes, t)

			errorTypes["AssertionError"] = struct{}{}
		}
	}

	sortedTypes := make([]string, 0, len(errorTypes))
	for t := range errorTypes {
		sortedTypes = append(sortedTypes, t)
	}

	sort.Strings(sortedTypes)

	report := FailureReport{
		ErrorTypes:    sortedTypes,
		TotalFailures: len(testNames),
	}

	for _, name := range testNames {
		display := displayName(name, sortedTypes)

		if matchesKeyword(name, keywords) {
			report.DependencyRelated = append(report.DependencyRelated, display)
		} else {
			report.OtherFailures = append(report.OtherFailures, display)
		}
	}

	return report
}

// displayName keeps at most the last two ::-delimited segments of a test
// id (suite/class and test method), dropping file-path prefixes.
func displayName(testName string, errorTypes []string) string {
	segments := strings.Split(testName, "::")
	if len(segments) > 2 {
		segments = segments[len(segments)-2:]
	}

	name := strings.Join(segments, "::")
	if len(errorTypes) > 0 {
		name += " (" + strings.Join(errorTypes, ", ") + ")"
	}

	return name
}

func matchesKeyword(testName string, keywords []string) bool {
	lower := strings.ToLower(testName)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}
