package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"github.com/sahilm/fuzzy"

	"github.com/kyleking/gh-upstream-watch/internal/checker"
	"github.com/kyleking/gh-upstream-watch/internal/config"
	"github.com/kyleking/gh-upstream-watch/internal/display"
	"github.com/kyleking/gh-upstream-watch/internal/gh"
)

var (
	version = "dev"
)

func main() {
	var (
		showVersion bool
		showHelp    bool
		verbose     bool
		copyURL     bool
		repoFlag    string
		wfFlag      string
		cfgFlag     string
		apiFlag     string
	)

	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.BoolVar(&showVersion, "v", false, "Show version (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help")
	flag.BoolVar(&showHelp, "h", false, "Show help (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "Show progress and debug output")
	flag.BoolVar(&copyURL, "copy-url", false, "Copy the evaluated run URL to the clipboard")
	flag.StringVar(&repoFlag, "repo", "", "Watched repository (owner/repo), overrides config")
	flag.StringVar(&wfFlag, "workflow", "", "Workflow file to inspect, fuzzy-matched against the repo's workflows")
	flag.StringVar(&cfgFlag, "config", "", "Path to config file")
	flag.StringVar(&apiFlag, "api", "", "Transport: auto, gh, or rest")
	flag.Parse()

	if showVersion {
		fmt.Printf("gh-upstream-watch %s\n", version)
		os.Exit(0)
	}

	if showHelp {
		printHelp()
		os.Exit(0)
	}

	log := newLogger(verbose)

	cfg, err := loadConfig(cfgFlag)
	if err != nil {
		fatal(err)
	}

	if repoFlag != "" {
		cfg.WatchedRepo = repoFlag
	}

	if apiFlag != "" {
		cfg.API = apiFlag
	}

	gw, err := gh.DetectGateway(cfg.WatchedRepo, cfg.Workflow, cfg.API, log)
	if err != nil {
		fatal(err)
	}

	if wfFlag != "" {
		resolved, err := resolveWorkflow(gw, wfFlag)
		if err != nil {
			fatal(err)
		}

		if resolved != cfg.Workflow {
			log.Debug().Str("workflow", resolved).Msg("resolved workflow")

			cfg.Workflow = resolved

			gw, err = gh.DetectGateway(cfg.WatchedRepo, cfg.Workflow, cfg.API, log)
			if err != nil {
				fatal(err)
			}
		}
	}

	chk := checker.New(gw, checker.Options{
		DependencyRepo:   cfg.DependencyRepo,
		DependencyName:   cfg.DependencyName,
		DefaultBranch:    cfg.DefaultBranch,
		DependencyBranch: cfg.DependencyBranch,
		ExtraKeywords:    cfg.Keywords,
	}, log)

	result, err := chk.Check()
	if err != nil {
		fatal(err)
	}

	fmt.Print(display.Render(result, cfg.WatchedRepo, cfg.DependencyName))

	if copyURL {
		url := display.RunURL(cfg.WatchedRepo, result.Run.ID)
		if err := clipboard.WriteAll(url); err != nil {
			log.Warn().Err(err).Msg("could not copy run URL to clipboard")
		} else {
			fmt.Printf("Copied run URL to clipboard: %s\n", url)
		}
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}

	return config.Load()
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// resolveWorkflow maps a user-supplied workflow spec onto one of the
// repository's registered workflow files, exact file name first, then
// fuzzy.
func resolveWorkflow(gw gh.Gateway, spec string) (string, error) {
	workflows, err := gw.ListWorkflows()
	if err != nil {
		return "", fmt.Errorf("failed to list workflows: %w", err)
	}

	names := make([]string, len(workflows))
	for i, wf := range workflows {
		names[i] = path.Base(wf.Path)
	}

	for i, name := range names {
		if strings.EqualFold(name, spec) || strings.EqualFold(workflows[i].Name, spec) {
			return name, nil
		}
	}

	matches := fuzzy.Find(spec, names)
	if len(matches) == 0 {
		return "", fmt.Errorf("no workflow matches %q", spec)
	}

	return names[matches[0].Index], nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printHelp() {
	fmt.Println(`gh-upstream-watch - Upstream dependency CI compatibility checker

Usage:
  gh upstream-watch [flags]

Description:
  Inspects a repository's upstream-dev CI workflow history, finds the most
  recent run where the upstream suite actually executed (not skipped), and
  reports the outcome, the dependency version exercised, which test
  failures look dependency-related, and how fresh the run is relative to
  the dependency's latest commit.

  Defaults watch pydata/xarray's upstream-dev-ci.yaml workflow for
  zarr-developers/zarr-python. Override via config file or flags.

Flags:
  -h, --help       Show this help message
  -v, --version    Show version
      --repo       Watched repository (owner/repo)
      --workflow   Workflow file to inspect (fuzzy-matched)
      --config     Path to config file
      --api        Transport: auto, gh, or rest
      --copy-url   Copy the evaluated run URL to the clipboard
      --verbose    Show progress and debug output

Requirements:
  - gh CLI installed and authenticated, or GH_TOKEN set (--api rest)

For more information: https://github.com/kyleking/gh-upstream-watch`)
}
