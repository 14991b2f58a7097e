// Package cli provides the cobra command surface for inkstone.
// It is a driving adapter: commands consume core services through
// their ports and never reach into adapters directly.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driving"
	"github.com/inkstone-labs/inkstone/internal/logger"
)

// version is set by the build via SetVersion.
var version = "dev"

// Persistent flags.
var (
	flagVerbose   bool
	flagConfigDir string
	flagWorkspace string
)

// Services injected by the composition root.
var (
	searchService   driving.WorkspaceSearch
	settingsService driving.Settings
	historyStore    driven.HistoryStore
	workspace       driven.Workspace
)

// BootstrapOptions carries the parsed persistent flags to the
// composition root's service builder.
type BootstrapOptions struct {
	// WorkspaceRoot is the directory to scan. Empty means the current
	// working directory.
	WorkspaceRoot string

	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// Verbose enables debug logging.
	Verbose bool
}

// bootstrap builds the service graph once flags are parsed. Installed
// by the composition root; tests inject services directly instead.
var bootstrap func(opts BootstrapOptions) error

var rootCmd = &cobra.Command{
	Use:   "inkstone",
	Short: "Annotation-aware search and replace for text workspaces",
	Long: `Inkstone scans a workspace of text files, keeps machine-generated
annotations anchored through edits, and replaces matches atomically
per file.

Run 'inkstone edit' for the interactive terminal UI, or use the
search, replace and history commands for scripted workflows.`,
	SilenceUsage:      true,
	PersistentPreRunE: runRootPreRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "configuration directory (default ~/.config/inkstone)")
	rootCmd.PersistentFlags().StringVar(&flagWorkspace, "workspace", "", "workspace root directory (default current directory)")
}

func runRootPreRun(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if bootstrap == nil {
		return nil
	}
	return bootstrap(BootstrapOptions{
		WorkspaceRoot: flagWorkspace,
		ConfigDir:     flagConfigDir,
		Verbose:       flagVerbose,
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap installs the service builder invoked after flag parsing.
func SetBootstrap(fn func(opts BootstrapOptions) error) {
	bootstrap = fn
}

// SetSearchService sets the workspace search service.
func SetSearchService(s driving.WorkspaceSearch) {
	searchService = s
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.Settings) {
	settingsService = s
}

// SetHistoryStore sets the search history store.
func SetHistoryStore(s driven.HistoryStore) {
	historyStore = s
}

// SetWorkspace sets the workspace used for file access.
func SetWorkspace(w driven.Workspace) {
	workspace = w
}
