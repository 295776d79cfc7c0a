package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every document from the index",
	Long: `Removes all indexed documents and resets the suggestion catalog.
Asks for confirmation unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	if !clearForce {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("refusing to clear without --force when stdin is not a terminal")
		}
		cmd.Print("This removes every indexed document and the suggestion catalog. Continue? [y/N]: ")
		if !confirmed(readLine(bufio.NewReader(os.Stdin))) {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := indexerService.ClearIndex(cmd.Context()); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	cmd.Println("Index cleared.")
	return nil
}

func confirmed(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
