package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"curie/backend"
	"curie/config"
	"curie/intent"
	"curie/model"
	"curie/storage"
	"curie/ui"
)

const (
	Version = "v0.1.0"
)

var (
	serverFlag  string
	dataDirFlag string
	debugFlag   bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "curie",
		Short: "Terminal chat client for the Curie document agent",
		Long: `Chat with the Curie agent from your terminal.

Curie merges documents and matches resumes to a job description. Upload
panels open on their own when the conversation needs files, or on demand:

  Alt+M   merge documents
  Alt+R   match resumes to a JD
  /help   all keys and commands`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runChat,
	}

	root.PersistentFlags().StringVar(&serverFlag, "server", "", "Agent server URL (default http://localhost:8000)")
	root.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Data directory (default ~/.local/share/curie)")
	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Write a debug log to <data-dir>/debug.log")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(newSessionCmd(), newPingCmd())
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithOverrides(config.Overrides{
		ServerURL:     serverFlag,
		DataDirectory: dataDirFlag,
	})
	if err != nil {
		return nil, err
	}
	config.InitDebugLog(cfg.DataDir(), debugFlag)
	return cfg, nil
}

// openSession returns the persisted session id and the store holding it.
func openSession(cfg *config.Config) (string, storage.Store) {
	store, persistent := storage.OpenStore(cfg.DataDir())
	if !persistent {
		config.DebugLog.Warn("session store unavailable, session id will not survive a restart",
			zap.String("data_dir", cfg.DataDir()))
	}
	return storage.NewIdentity(store).GetOrCreateSessionID(), store
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		p := tea.NewProgram(
			ui.NewErrorModal("Configuration Error", err.Error()),
			tea.WithAltScreen(),
		)
		if _, runErr := p.Run(); runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		}
		return err
	}
	defer config.SyncDebugLog()

	sessionID, store := openSession(cfg)
	defer store.Close()

	client, err := backend.NewClient(cfg.ServerURL, cfg.Timeout())
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	config.DebugLog.Info("starting",
		zap.String("server", client.BaseURL()),
		zap.String("session", sessionID))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	m := model.NewModel(sessionID, client, intent.NewPatternClassifier(), cfg.WelcomeMessage)
	m.SetContext(ctx)

	p := tea.NewProgram(
		ui.NewAppView(cfg, m),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running curie: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
