package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"curie/backend"
	"curie/config"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
)

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Print the persisted session id",
		Long: `Print the conversation id this profile sends with every chat turn.
The id is created on first use and kept in <data-dir>/client.db.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer config.SyncDebugLog()

			sessionID, store := openSession(cfg)
			defer store.Close()

			fmt.Fprintln(cmd.OutOrStdout(), sessionID)
			return nil
		},
	}
}

func newPingCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the agent server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer config.SyncDebugLog()

			client, err := backend.NewClient(cfg.ServerURL, cfg.Timeout())
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out := cmd.OutOrStdout()
			start := time.Now()
			if err := client.Ping(ctx); err != nil {
				fmt.Fprintln(out, errorStyle.Render("✗ "+client.BaseURL()), err)
				return fmt.Errorf("server unreachable: %w", err)
			}
			fmt.Fprintln(out, successStyle.Render("✓ "+client.BaseURL()),
				dimStyle.Render(fmt.Sprintf("(%s)", time.Since(start).Round(time.Millisecond))))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "How long to wait for the server")
	return cmd
}
