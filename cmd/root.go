package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/config"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/infrastructure/sqlite"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/log"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/screenshots"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/session"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/tracing"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/transport"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/ui/chat"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "cortex",
	Short:   "A terminal chat client for remote AI agents",
	Long:    `A terminal chat client that follows a remote AI agent's progress live: status, sub-goals, and step-by-step screenshots, with chats kept across sessions.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/cortex/cortex.yaml)")
	rootCmd.Flags().String("server", "",
		"websocket endpoint of the agent backend")
	rootCmd.Flags().Bool("debug", false,
		"enable debug logging to ~/.cortex/debug.log")
	rootCmd.Flags().Bool("no-persist", false,
		"keep chats in memory only, nothing written to disk")

	_ = viper.BindPFlag("server_url", rootCmd.Flags().Lookup("server"))
}

// defaultConfigPath returns ~/.config/cortex/cortex.yaml.
func defaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cortex", "cortex.yaml")
}

// resolveConfigPath returns the config file in use, preferring --config.
func resolveConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return defaultConfigPath()
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("server_url", defaults.ServerURL)
	viper.SetDefault("auto_reconnect", defaults.AutoReconnect)
	viper.SetDefault("storage.path", defaults.Storage.Path)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.vim_mode", defaults.UI.VimMode)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(filepath.Join(home, ".config", "cortex"))
		viper.SetConfigName("cortex")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// First run - create a commented default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := defaultConfigPath()
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug || os.Getenv("CORTEX_DEBUG") != "" {
		home, _ := os.UserHomeDir()
		logPath := filepath.Join(home, ".cortex", "debug.log")
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		cleanup, err := log.InitWithTeaLog(logPath, "cortex")
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		defer cleanup()
		log.SetEnabled(true)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := context.Background()

	provider, err := tracing.NewProvider(tracing.FromConfig(cfg.Tracing))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	var repo domain.ChatRepository
	noPersist, _ := cmd.Flags().GetBool("no-persist")
	if !cfg.Storage.Disabled && !noPersist {
		storagePath := cfg.Storage.Path
		if storagePath == "" {
			storagePath = config.DefaultStoragePath()
		}
		db, err := sqlite.NewDB(storagePath)
		if err != nil {
			return fmt.Errorf("opening chat storage: %w", err)
		}
		defer func() { _ = db.Close() }()
		repo = db.ChatRepository()
	}

	// A failed first dial starts the session offline; the status bar
	// shows the link state and sends stay disabled until it comes up.
	var channel transport.Channel
	ws, err := transport.DialWebSocket(ctx, transport.WebSocketConfig{
		URL:       cfg.ServerURL,
		Reconnect: cfg.AutoReconnect,
	})
	if err != nil {
		log.Warn(log.CatTransport, "initial dial failed, starting offline", "error", err)
	} else {
		channel = ws
		defer func() { _ = ws.Close() }()
	}

	controller, err := session.NewController(session.Config{
		Channel:       channel,
		Repository:    repo,
		AutoReconnect: cfg.AutoReconnect,
		Tracer:        provider.Tracer(),
	})
	if err != nil {
		return fmt.Errorf("initializing session: %w", err)
	}
	defer controller.Close()

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go controller.Run(runCtx)

	zone.NewGlobal()

	model := chat.New(chat.Config{
		Controller: controller,
		Fetcher:    screenshots.NewFetcher(nil, cfg.Screenshots.DisableCache),
		UI:         cfg.UI,
	})
	defer model.Cleanup()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	stopWatch, err := watchConfig(p)
	if err != nil {
		log.Warn(log.CatConfig, "config watcher unavailable", "error", err)
	} else {
		defer stopWatch()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// watchConfig reloads UI options when the config file changes on disk.
func watchConfig(p *tea.Program) (func(), error) {
	w, err := watcher.New(watcher.DefaultConfig(resolveConfigPath()))
	if err != nil {
		return nil, err
	}

	onChange, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return nil, err
	}

	go func() {
		for range onChange {
			if err := viper.ReadInConfig(); err != nil {
				log.Warn(log.CatConfig, "config reload failed", "error", err)
				continue
			}
			var next config.Config
			if err := viper.Unmarshal(&next); err != nil {
				log.Warn(log.CatConfig, "config reload failed", "error", err)
				continue
			}
			if err := config.ValidateUI(next.UI); err != nil {
				log.Warn(log.CatConfig, "ignoring invalid ui config", "error", err)
				continue
			}
			p.Send(chat.ConfigReloadedMsg{UI: next.UI})
		}
	}()

	return func() { _ = w.Stop() }, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
