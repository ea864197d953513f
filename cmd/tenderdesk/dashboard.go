package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/five82/tenderdesk/internal/app"
	"github.com/five82/tenderdesk/internal/views"
)

func newDashboardCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard counters for the signed-in role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, tiles, err := app.Dashboard(cmd.Context(), flags.options())
			if err != nil {
				return err
			}
			renderDashboard(cmd.OutOrStdout(), session, tiles)
			return nil
		},
	}
}

func renderDashboard(w io.Writer, session app.Session, tiles []views.Tile) {
	name := session.User.FullName
	if name == "" {
		name = session.User.Username
	}
	_, _ = fmt.Fprintf(w, "%s (%s)\n", name, session.Role)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Tile", "Count", "Opens"})
	for _, tile := range tiles {
		t.AppendRow(table.Row{tile.Title, tile.Value, tile.Target.Title()})
	}
	t.Render()
}
