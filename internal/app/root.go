package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/blackwell-systems/readctl/internal/api"
	"github.com/blackwell-systems/readctl/internal/auth"
	"github.com/blackwell-systems/readctl/internal/cache"
	"github.com/blackwell-systems/readctl/internal/config"
	"github.com/blackwell-systems/readctl/internal/library"
	"github.com/blackwell-systems/readctl/internal/tui"
	"github.com/blackwell-systems/readctl/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	store    *auth.Store
	client   *api.Client
	svc      *library.Service
	cacheMgr *cache.Manager
	logger   *slog.Logger

	flagVerbose       bool
	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string
)

var rootCmd = &cobra.Command{
	Use:   "readctl",
	Short: "Track and read your books from the terminal",
	Long: `readctl is a terminal client for a reading-tracker service.

Browse the catalog, shelve books, read EPUBs in a paged terminal view,
and have your reading progress synced back automatically.

Run 'readctl' with no arguments to launch the interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tui.ShouldUseTUI(cmd) {
			return runHub()
		}
		return cmd.Help()
	},
}

// Execute is the entry point called from main.
func Execute() {
	defer func() {
		if store != nil {
			store.Close()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/readctl/config.yml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)
		initLogger()

		if flagConfig != "" {
			os.Setenv("READCTL_CONFIG", flagConfig)
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// init and version work without a configured service.
		if cmd.Name() == "init" || cmd.Name() == "version" || cmd.Name() == "completion" {
			return nil
		}

		// The bare command (hub) handles the unconfigured case itself with
		// a setup message instead of an error.
		if cmd == rootCmd && !cfg.Configured() {
			return nil
		}

		if !cfg.Configured() {
			return fmt.Errorf("no service configured — run 'readctl init' or set READCTL_API_BASE_URL and READCTL_AUTH_URL")
		}

		return wireClients(cmd.Context())
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newDiscoverCmd(),
		newCategoriesCmd(),
		newLibraryCmd(),
		newAddCmd(),
		newUpdateCmd(),
		newReadCmd(),
		newSubscribeCmd(),
		newCacheCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
}

// wireClients builds the provider, session store, API client, and library
// service. The store supplies credentials to the client; the client supplies
// subscription state to the store.
func wireClients(ctx context.Context) error {
	provider := auth.NewProvider(cfg.Auth.URL, cfg.Auth.Key)

	store = auth.NewStore(provider, config.SessionPath(), nil, logger)
	client = api.New(cfg.API.BaseURL, store.Credentials, logger)
	store.SetTierFetcher(client)

	if err := store.Initialize(ctx); err != nil {
		warn("Could not restore session: %v", err)
	}

	svc = library.NewService(client, func() bool {
		return store.Session() != nil
	}, logger)

	// A session change means a different user's library; drop everything.
	store.Subscribe(func(*auth.Session) {
		svc.Invalidate()
	})

	cacheMgr = cache.New(cfg.Defaults.CacheDir)
	return nil
}

func initLogger() {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}
