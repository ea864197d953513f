package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/five82/tenderdesk/internal/mockapi"
)

func newMockAPICmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Serve an in-memory procurement API with demo data",
		Long: `mock-api serves the procurement endpoints from memory, seeded with one
user per role. Each user's password is their username.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			return mockapi.New(mockapi.NewSeededStore(), logger).Serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	return cmd
}
