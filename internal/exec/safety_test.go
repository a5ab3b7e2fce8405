package exec

import "testing"

func TestIsReadOnlyCommand(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		args []string
		want bool
	}{
		{name: "gh version", cmd: "gh", args: []string{"--version"}, want: true},
		{name: "gh auth status", cmd: "gh", args: []string{"auth", "status"}, want: true},
		{name: "gh run list", cmd: "gh", args: []string{"run", "list", "--repo", "o/r"}, want: true},
		{name: "gh run view", cmd: "gh", args: []string{"run", "view", "123"}, want: true},
		{name: "gh run rerun is a mutation", cmd: "gh", args: []string{"run", "rerun", "123"}, want: false},
		{name: "gh run cancel is a mutation", cmd: "gh", args: []string{"run", "cancel", "123"}, want: false},
		{name: "gh api GET", cmd: "gh", args: []string{"api", "repos/o/r/actions/jobs/1/logs"}, want: true},
		{name: "gh api with explicit method", cmd: "gh", args: []string{"api", "-X", "DELETE", "repos/o/r"}, want: false},
		{name: "gh api with long method flag", cmd: "gh", args: []string{"api", "--method", "POST", "repos/o/r"}, want: false},
		{name: "gh workflow run is a mutation", cmd: "gh", args: []string{"workflow", "run", "ci.yaml"}, want: false},
		{name: "non-gh commands are not read-only gh", cmd: "rm", args: []string{"-rf", "/"}, want: false},
		{name: "bare gh", cmd: "gh", args: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isReadOnlyCommand(tt.cmd, tt.args); got != tt.want {
				t.Errorf("isReadOnlyCommand(%q, %v) = %v, want %v", tt.cmd, tt.args, got, tt.want)
			}
		})
	}
}

func TestMockExecutorTracksCommands(t *testing.T) {
	m := NewMockExecutor()
	m.AddCommand("gh", []string{"--version"}, "gh version 2.60.0", "", nil)

	stdout, _, err := m.Execute("gh", "--version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stdout != "gh version 2.60.0" {
		t.Errorf("stdout = %q", stdout)
	}

	if len(m.ExecutedCommands) != 1 || m.ExecutedCommands[0].Name != "gh" {
		t.Errorf("ExecutedCommands = %+v", m.ExecutedCommands)
	}
}

func TestMockExecutorWildcardMatch(t *testing.T) {
	m := NewMockExecutor()
	m.AddCommand("gh", []string{"run", "list", "--repo", "o/r", "--json", "*"}, "[]", "", nil)

	stdout, _, err := m.Execute("gh", "run", "list", "--repo", "o/r", "--json", "databaseId,number")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stdout != "[]" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestMockExecutorUnconfiguredCommand(t *testing.T) {
	m := NewMockExecutor()

	_, _, err := m.Execute("gh", "run", "list")
	if err == nil {
		t.Fatal("expected error for unconfigured command")
	}
}
