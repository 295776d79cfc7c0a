package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/logger"
	"github.com/custodia-labs/docfind/internal/spool"
)

var indexWatchDir string

var indexCmd = &cobra.Command{
	Use:   "index [files...]",
	Short: "Index NDJSON document records",
	Long: `Indexes newline-delimited JSON records produced by the document
pipeline. Each line is either a document or, with "deleted": true, a
deletion signal for a previously indexed ID.

Records are read from the given files, or from stdin when no files are
given. With --watch the command ingests every drop already in the spool
directory and then keeps tailing it for new ones until interrupted.`,
	Args: cobra.ArbitraryArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexWatchDir, "watch", "", "spool directory to tail for NDJSON drops")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	if indexWatchDir != "" {
		if len(args) > 0 {
			return errors.New("--watch does not take file arguments")
		}
		return watchSpool(cmd, indexWatchDir)
	}

	if len(args) == 0 {
		records, err := spool.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		return applyRecords(cmd.Context(), cmd, records)
	}

	var all []spool.Record
	for _, path := range args {
		records, err := spool.ReadFile(path)
		if err != nil {
			return err
		}
		all = append(all, records...)
	}
	return applyRecords(cmd.Context(), cmd, all)
}

// applyRecords indexes document records in one batch and applies
// deletions one by one.
func applyRecords(ctx context.Context, cmd *cobra.Command, records []spool.Record) error {
	var docs []domain.IndexedDocument
	var deletions []string
	for _, rec := range records {
		if rec.Deleted {
			deletions = append(deletions, rec.Document.ID)
			continue
		}
		docs = append(docs, rec.Document)
	}

	indexed := 0
	if len(docs) > 0 {
		n, err := indexerService.IndexDocuments(ctx, docs)
		indexed = n
		if err != nil {
			return fmt.Errorf("indexing failed after %d documents: %w", n, err)
		}
	}

	deleted := 0
	for _, id := range deletions {
		found, err := indexerService.DeleteDocument(ctx, id)
		if err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		if found {
			deleted++
		}
	}

	cmd.Printf("Indexed %d documents", indexed)
	if len(deletions) > 0 {
		cmd.Printf(", deleted %d", deleted)
	}
	cmd.Println(".")
	return nil
}

// watchSpool ingests drops already present in the spool directory,
// then tails it until the command is interrupted.
func watchSpool(cmd *cobra.Command, dir string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	existing, err := spool.ListDrops(dir)
	if err != nil {
		return err
	}
	for _, path := range existing {
		ingestDrop(ctx, cmd, path)
	}

	watcher := spool.NewWatcher(dir)
	defer watcher.Close() //nolint:errcheck

	drops, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s for NDJSON drops. Press Ctrl+C to stop.\n", dir)
	for drop := range drops {
		ingestDrop(ctx, cmd, drop.Path)
	}

	cmd.Println("Stopped watching.")
	return nil
}

// ingestDrop applies one spool file, logging failures instead of
// stopping the watch. A partially written drop is re-read when its
// next write event settles.
func ingestDrop(ctx context.Context, cmd *cobra.Command, path string) {
	records, err := spool.ReadFile(path)
	if err != nil {
		logger.Error("Spool drop %s: %v", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return
	}

	if err := applyRecords(ctx, cmd, records); err != nil {
		logger.Error("Spool drop %s: %v", filepath.Base(path), err)
	}
}
