package exec

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"testing"
)

// CommandExecutor defines an interface for executing external commands.
// This allows us to mock gh CLI invocations in tests.
type CommandExecutor interface {
	// Execute runs a command with the given name and arguments.
	// Returns stdout, stderr, and any error.
	Execute(name string, args ...string) (stdout string, stderr string, err error)
}

// RealExecutor executes actual system commands.
type RealExecutor struct{}

// NewRealExecutor creates an executor that runs real commands.
func NewRealExecutor() *RealExecutor {
	return &RealExecutor{}
}

// Execute runs the actual command using os/exec.
// It includes a safety check so tests can never reach the real gh CLI: this
// tool is read-only against GitHub, and tests must stay that way too.
func (e *RealExecutor) Execute(name string, args ...string) (string, string, error) {
	if testing.Testing() && !isReadOnlyCommand(name, args) {
		panic(fmt.Sprintf(
			"SAFETY VIOLATION: attempted non-read-only command during test: %s %s\n"+
				"Use exec.MockExecutor in your test instead.",
			name, strings.Join(args, " "),
		))
	}

	cmd := exec.Command(name, args...)

	var stdout bytes.Buffer

	var stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return stdout.String(), stderr.String(), err
}

// isReadOnlyCommand reports whether a gh invocation is one of the read-only
// forms this tool issues. Anything else is treated as a potential mutation.
func isReadOnlyCommand(name string, args []string) bool {
	if name != "gh" {
		return false
	}

	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "--version", "auth":
		return true
	case "run":
		if len(args) > 1 {
			op := args[1]
			return op == "view" || op == "list" || op == "watch"
		}

		return false
	case "api":
		// GET is the default method; any explicit method flag is suspect.
		for _, a := range args[1:] {
			if a == "--method" || a == "-X" || strings.HasPrefix(a, "--method=") {
				return false
			}
		}

		return true
	}

	return false
}
