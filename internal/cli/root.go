// Package cli implements calldeskctl, the command-line face of the console.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/set-night/calldesk/internal/calllog"
	"github.com/set-night/calldesk/internal/config"
	"github.com/set-night/calldesk/internal/service"
)

// app carries what every subcommand needs once the root pre-run has
// loaded configuration.
type app struct {
	envFile string
	api     *config.API
	backend *service.BackendClient
}

func (a *app) viewer(limit, pageSize int) *calllog.Viewer {
	return calllog.NewViewer(a.backend, calllog.Options{
		PageSize:        pageSize,
		Limit:           limit,
		RankConcurrency: a.api.RankConcurrency,
	})
}

// NewRootCmd builds the calldeskctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "calldeskctl",
		Short: "Inspect call sessions and manage assistant content",
		Long: "calldeskctl talks to the assistant backend the same way the operator bot does.\n" +
			"Settings come from the environment and an optional dotenv file (API_BASE_URL, API_TOKEN, API_TOKEN_FILE).",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			api, err := config.LoadAPI(a.envFile)
			if err != nil {
				return err
			}
			a.api = api
			a.backend = service.NewBackendClient(api)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.envFile, "env", ".env", "dotenv file with API settings (missing file is ignored)")

	root.AddCommand(
		newPhonesCmd(a),
		newSessionsCmd(a),
		newLogsCmd(a),
		newRecordingsCmd(a),
		newRecordingCmd(a),
		newTranscriptCmd(a),
		newDeleteTurnCmd(a),
		newDeleteSessionCmd(a),
		newPromptCmd(a),
		newFAQCmd(a),
		newTaskCmd(a),
		newConfigDocCmd(a, extToolsDoc),
		newConfigDocCmd(a, funcConfigDoc),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", service.ErrorMessage(err))
		return 1
	}
	return 0
}
