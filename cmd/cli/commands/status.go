package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yasha-ai/gemini-worker/internal/types"
)

// statusOutput is the printed status of a run
type statusOutput struct {
	Run    string          `json:"run"`
	Kind   types.JobKind   `json:"kind"`
	Status types.RunStatus `json:"status"`
}

func init() {
	statusCmd.Flags().Int64P("id", "i", 0, "Run ID to check")
	_ = statusCmd.MarkFlagRequired("id")
	statusCmd.Flags().StringP("kind", "k", "", "Job kind of the run")
	_ = statusCmd.MarkFlagRequired("kind")

	cancelCmd.Flags().Int64P("id", "i", 0, "Run ID to cancel")
	_ = cancelCmd.MarkFlagRequired("id")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the status of a dispatched run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		handle, err := handleFromFlags(cmd)
		if err != nil {
			return err
		}

		status, err := jobRunner.Status(cmd.Context(), handle)
		if err != nil {
			return fmt.Errorf("error fetching run status: %w", err)
		}

		prettyJSON, err := json.MarshalIndent(statusOutput{
			Run:    handle.String(),
			Kind:   handle.Kind,
			Status: status,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Println(string(prettyJSON))
		return nil
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel a dispatched run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetInt64("id")
		handle := types.RunHandle{ID: id}

		if err := jobRunner.Cancel(cmd.Context(), handle); err != nil {
			return fmt.Errorf("error cancelling run: %w", err)
		}
		fmt.Printf("Requested cancellation of run %d\n", id)
		return nil
	},
}

func handleFromFlags(cmd *cobra.Command) (types.RunHandle, error) {
	id, _ := cmd.Flags().GetInt64("id")
	kindStr, _ := cmd.Flags().GetString("kind")

	kind, err := types.ParseJobKind(kindStr)
	if err != nil {
		return types.RunHandle{}, err
	}
	return types.RunHandle{ID: id, Kind: kind}, nil
}
