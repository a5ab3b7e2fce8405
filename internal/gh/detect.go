package gh

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/kyleking/gh-upstream-watch/internal/exec"
)

// APIPreferenceEnv overrides the transport choice: "gh", "rest", or "auto".
const APIPreferenceEnv = "UPSTREAM_WATCH_API"

// GHAvailable reports whether the gh binary is installed and authenticated.
func GHAvailable(executor exec.CommandExecutor) bool {
	if _, _, err := executor.Execute("gh", "--version"); err != nil {
		return false
	}

	_, _, err := executor.Execute("gh", "auth", "status")

	return err == nil
}

// DetectGateway picks a transport by availability probing. Preference comes
// from the argument, falling back to UPSTREAM_WATCH_API, then "auto". The
// checker never learns which transport was chosen.
func DetectGateway(repo, workflow, preference string, log zerolog.Logger) (Gateway, error) {
	return detectGateway(repo, workflow, preference, exec.NewRealExecutor(), log)
}

func detectGateway(repo, workflow, preference string, executor exec.CommandExecutor, log zerolog.Logger) (Gateway, error) {
	if preference == "" || preference == "auto" {
		if env := os.Getenv(APIPreferenceEnv); env != "" {
			preference = env
		}
	}

	switch preference {
	case "rest":
		log.Debug().Msg("using direct GitHub REST API (as requested)")
		return NewRESTGateway(repo, workflow)
	case "gh":
		if GHAvailable(executor) {
			log.Debug().Msg("using gh CLI (as requested)")
			return NewCLIGatewayWithExecutor(repo, workflow, executor), nil
		}

		log.Warn().Msg("gh CLI requested but not available, falling back to REST API")

		return NewRESTGateway(repo, workflow)
	case "", "auto":
		if GHAvailable(executor) {
			log.Debug().Msg("using gh CLI (authenticated)")
			return NewCLIGatewayWithExecutor(repo, workflow, executor), nil
		}

		log.Warn().Msg("gh CLI not available, using direct GitHub API")

		return NewRESTGateway(repo, workflow)
	default:
		return nil, fmt.Errorf("unknown API preference %q (expected gh, rest, or auto)", preference)
	}
}
