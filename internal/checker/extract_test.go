package checker_test

import (
	"reflect"
	"testing"

	"github.com/kyleking/gh-upstream-watch/internal/checker"
)

var zarrKeywords = []string{"zarr", "chunk", "codec", "storage", "blosc", "zlib", "gzip", "compression", "array_api", "buffer"}

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "standard escape sequences",
			input: "\x1b[31mFAILED\x1b[0m tests.py::TestA::test_one",
			want:  "FAILED tests.py::TestA::test_one",
		},
		{
			name:  "deformed sequences missing the escape byte",
			input: "[0;31mFAILED[0m tests.py::TestA::test_one",
			want:  "FAILED tests.py::TestA::test_one",
		},
		{
			name:  "plain text untouched",
			input: "FAILED tests.py::TestA::test_one",
			want:  "FAILED tests.py::TestA::test_one",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.StripANSI(tt.input); got != tt.want {
				t.Errorf("StripANSI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractVersion(t *testing.T) {
	matchers := checker.NewVersionMatchers("zarr")

	tests := []struct {
		name string
		log  string
		want string
	}{
		{
			name: "conda listing with dev build metadata",
			log:  "zarr: 3.1.3.dev23+g62d1a6abc installed",
			want: "3.1.3.dev23+g62d1a6abc",
		},
		{
			name: "plain version after name",
			log:  "collected zarr 2.18.3 from cache",
			want: "2.18.3",
		},
		{
			name: "pip successfully installed line",
			log:  "Successfully installed numpy-2.1.0 zarr-python-2.18.3",
			want: "2.18.3",
		},
		{
			name: "no recognizable pattern yields empty",
			log:  "nothing relevant here",
			want: "",
		},
		{
			name: "most frequent match wins",
			log:  "zarr: 1.2.3\nzarr: 2.0.0\nzarr: 2.0.0\n",
			want: "2.0.0",
		},
		{
			name: "equal frequency keeps first encountered",
			log:  "zarr: 1.2.3\nzarr: 2.0.0\n",
			want: "1.2.3",
		},
		{
			name: "earlier pattern takes priority",
			log:  "zarr: 3.0.0\nSuccessfully installed zarr-python-2.18.3\n",
			want: "3.0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.ExtractVersion(tt.log, matchers); got != tt.want {
				t.Errorf("ExtractVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractFailures(t *testing.T) {
	log := "FAILED test_x.py::TestA::test_one - ValueError: bad\n" +
		"FAILED test_y.py::TestB::test_two - assert False\n"

	report := checker.ExtractFailures(log, zarrKeywords)

	if report.TotalFailures != 2 {
		t.Errorf("TotalFailures = %d, want 2", report.TotalFailures)
	}

	wantTypes := []string{"AssertionError", "ValueError"}
	if !reflect.DeepEqual(report.ErrorTypes, wantTypes) {
		t.Errorf("ErrorTypes = %v, want %v", report.ErrorTypes, wantTypes)
	}

	// Error types are aggregated run-wide, so every display name carries
	// the full set.
	wantOther := []string{
		"TestA::test_one (AssertionError, ValueError)",
		"TestB::test_two (AssertionError, ValueError)",
	}
	if !reflect.DeepEqual(report.OtherFailures, wantOther) {
		t.Errorf("OtherFailures = %v, want %v", report.OtherFailures, wantOther)
	}

	if len(report.DependencyRelated) != 0 {
		t.Errorf("DependencyRelated = %v, want none", report.DependencyRelated)
	}
}

func TestExtractFailuresClassification(t *testing.T) {
	log := "FAILED xarray/tests/test_backends.py::TestZarr::test_codec_roundtrip - ValueError: oops\n" +
		"FAILED xarray/tests/test_misc.py::TestMisc::test_unrelated_feature - ValueError: oops\n"

	report := checker.ExtractFailures(log, zarrKeywords)

	wantDep := []string{"TestZarr::test_codec_roundtrip (ValueError)"}
	if !reflect.DeepEqual(report.DependencyRelated, wantDep) {
		t.Errorf("DependencyRelated = %v, want %v", report.DependencyRelated, wantDep)
	}

	wantOther := []string{"TestMisc::test_unrelated_feature (ValueError)"}
	if !reflect.DeepEqual(report.OtherFailures, wantOther) {
		t.Errorf("OtherFailures = %v, want %v", report.OtherFailures, wantOther)
	}
}

func TestExtractFailuresEdgeCases(t *testing.T) {
	t.Run("no failures yields empty report", func(t *testing.T) {
		report := checker.ExtractFailures("all tests passed", zarrKeywords)
		if !report.Empty() {
			t.Errorf("expected empty report, got %+v", report)
		}
	})

	t.Run("duplicates preserved and counted", func(t *testing.T) {
		log := "FAILED t.py::TestA::test_one - ValueError: x\n" +
			"FAILED t.py::TestA::test_one - ValueError: x\n"

		report := checker.ExtractFailures(log, zarrKeywords)
		if report.TotalFailures != 2 {
			t.Errorf("TotalFailures = %d, want 2", report.TotalFailures)
		}

		if len(report.OtherFailures) != 2 {
			t.Errorf("len(OtherFailures) = %d, want 2", len(report.OtherFailures))
		}
	})

	t.Run("no error type leaves display name bare", func(t *testing.T) {
		report := checker.ExtractFailures("FAILED t.py::TestA::test_one\n", zarrKeywords)

		want := []string{"TestA::test_one"}
		if !reflect.DeepEqual(report.OtherFailures, want) {
			t.Errorf("OtherFailures = %v, want %v", report.OtherFailures, want)
		}
	})

	t.Run("ansi colored FAILED lines still match", func(t *testing.T) {
		log := "\x1b[31mFAILED\x1b[0m t.py::TestA::test_chunk - TypeError: no\n"

		report := checker.ExtractFailures(log, zarrKeywords)
		if report.TotalFailures != 1 {
			t.Fatalf("TotalFailures = %d, want 1", report.TotalFailures)
		}

		want := []string{"TestA::test_chunk (TypeError)"}
		if !reflect.DeepEqual(report.DependencyRelated, want) {
			t.Errorf("DependencyRelated = %v, want %v", report.DependencyRelated, want)
		}
	})

	t.Run("idempotent over identical input", func(t *testing.T) {
		log := "FAILED a.py::TestA::test_one - ValueError: x\n" +
			"FAILED b.py::TestB::test_storage - KeyError: y\n"

		first := checker.ExtractFailures(log, zarrKeywords)
		second := checker.ExtractFailures(log, zarrKeywords)

		if !reflect.DeepEqual(first, second) {
			t.Errorf("reports differ:\n%+v\n%+v", first, second)
		}
	})
}
