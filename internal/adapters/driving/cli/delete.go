package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [document-id...]",
	Short: "Remove documents from the index",
	Long: `Removes documents by ID. IDs that were never indexed are reported
but do not fail the command.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	for _, id := range args {
		found, err := indexerService.DeleteDocument(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		if found {
			cmd.Printf("Deleted %s.\n", id)
		} else {
			cmd.Printf("Not indexed: %s.\n", id)
		}
	}
	return nil
}
