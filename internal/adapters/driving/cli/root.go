// Package cli provides the cobra command tree for the docfind binary.
// Commands talk to the core services through the driving ports; the
// real adapters are wired once in Execute and injected as package-level
// service variables so tests can swap in mocks.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfind/internal/adapters/driven/config/file"
	bleveindex "github.com/custodia-labs/docfind/internal/adapters/driven/index/bleve"
	"github.com/custodia-labs/docfind/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docfind/internal/core/domain"
	"github.com/custodia-labs/docfind/internal/core/ports/driving"
	"github.com/custodia-labs/docfind/internal/core/services"
	"github.com/custodia-labs/docfind/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the commands. Execute wires the real ones; tests
// inject mocks directly.
var (
	searchService   driving.SearchService
	indexerService  driving.IndexerService
	settingsService driving.SettingsService
)

// On-disk resources owned by the process, closed after the command
// finishes.
var (
	index *bleveindex.Engine
	store *sqlite.Store
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docfind",
	Short: "Search your local document library",
	Long: `docfind indexes documents handed over by the document pipeline and
searches them with field filters, facets and ranked relevance.

Documents arrive as NDJSON records via 'docfind index'; everything else
operates on the resulting local index under ~/.docfind.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute wires the real services and runs the root command.
func Execute() error {
	if err := initServices(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	defer closeServices()

	return rootCmd.Execute()
}

// initServices builds the service graph over the on-disk stores.
func initServices() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	baseDir := filepath.Join(home, ".docfind")

	configStore, err := file.NewConfigStore(baseDir)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	store, err = sqlite.NewStore(filepath.Join(baseDir, "data"))
	if err != nil {
		return fmt.Errorf("open catalog store: %w", err)
	}

	index, err = bleveindex.New(bleveindex.Config{Path: filepath.Join(baseDir, "index")})
	if err != nil {
		return fmt.Errorf("open document index: %w", err)
	}

	schema := domain.DefaultSchema()
	parser := services.NewQueryParser(schema)
	suggestions := services.NewSuggestionEngine(store.SuggestionStore(), index)

	settingsService = services.NewSettingsService(configStore)
	searchService = services.NewSearchService(
		index,
		parser,
		services.NewRanker(),
		services.NewFacetEngine(schema, parser),
		suggestions,
		store.HistoryStore(),
		settingsService,
	)
	indexerService = services.NewIndexerService(index, suggestions, settingsService)

	return nil
}

// closeServices releases the index and catalog store.
func closeServices() {
	if index != nil {
		if err := index.Close(); err != nil {
			logger.Warn("Closing index: %v", err)
		}
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("Closing catalog store: %v", err)
		}
	}
}
