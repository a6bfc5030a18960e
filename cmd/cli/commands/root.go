// Package commands implements the gemini-worker CLI. Each command maps its
// flags onto a job kind's parameters and prints or saves the job result;
// the dispatch/poll/retrieve protocol itself lives in pkg/runner.
package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yasha-ai/gemini-worker/internal/actions"
	"github.com/yasha-ai/gemini-worker/internal/config"
	"github.com/yasha-ai/gemini-worker/internal/constants"
	"github.com/yasha-ai/gemini-worker/pkg/runner"
)

// flag names
const (
	flagRepo    = "repo"
	flagRef     = "ref"
	flagTimeout = "timeout"
	flagOutput  = "output"
	flagModel   = "model"
)

var (
	// jobRunner is the shared runner instance. PersistentPreRunE sets it.
	jobRunner *runner.Runner

	repoFlag    string
	refFlag     string
	timeoutFlag time.Duration
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&repoFlag, flagRepo, "r", "", "Target repository as owner/name (env: "+constants.EnvOwner+", "+constants.EnvRepo+")")
	RootCmd.PersistentFlags().StringVar(&refFlag, flagRef, "", "Git ref to dispatch workflows on (env: "+constants.EnvRef+")")
	RootCmd.PersistentFlags().DurationVarP(&timeoutFlag, flagTimeout, "t", 0, "Wall-clock budget per job (default 15m)")

	RootCmd.AddCommand(textCmd)
	RootCmd.AddCommand(imageCmd)
	RootCmd.AddCommand(voiceCmd)
	RootCmd.AddCommand(ideasCmd)
	RootCmd.AddCommand(playgroundCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(cancelCmd)
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "gemini-worker",
	Short: "Dispatch generation jobs through CI workflows and collect their artifacts",
	Long: `gemini-worker triggers credential-isolated generation jobs (text, image,
voice, ideas, playgrounds) as CI workflow runs, waits for them to finish,
and downloads the produced artifacts. The generation API key stays in the
CI secret store; this tool only needs a scoped CI token.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Flags override the environment.
		if repoFlag != "" {
			owner, repo, ok := splitRepo(repoFlag)
			if !ok {
				return fmt.Errorf("invalid --repo value %q, expected owner/name", repoFlag)
			}
			cfg.Owner, cfg.Repo = owner, repo
		}
		if refFlag != "" {
			cfg.Ref = refFlag
		}

		return initRunner(cfg)
	},
}

// initRunner builds the shared runner from the resolved configuration.
func initRunner(cfg *config.Config) error {
	opts := actions.DefaultOptions()
	opts.BaseURL = cfg.BaseURL
	opts.Token = cfg.Token
	opts.Owner = cfg.Owner
	opts.Repo = cfg.Repo

	client, err := actions.NewClient(opts)
	if err != nil {
		return err
	}

	jobRunner, err = runner.New(client, runner.Options{Ref: cfg.Ref})
	return err
}

func splitRepo(value string) (owner, repo string, ok bool) {
	owner, repo, ok = strings.Cut(value, "/")
	return owner, repo, ok && owner != "" && repo != "" && !strings.Contains(repo, "/")
}

// writeOutput saves content to path, or to stdout when path is "-".
func writeOutput(path string, content []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(content)
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Saved to %s (%d bytes)\n", path, len(content))
	return nil
}
