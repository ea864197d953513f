package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/tenderdesk/internal/app"
	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/grid"
)

func newItemCmd(flags *globalFlags) *cobra.Command {
	itemCmd := &cobra.Command{
		Use:   "item",
		Short: "Manage the item catalogue used by purchase orders",
	}
	itemCmd.AddCommand(newItemAddCmd(flags))
	return itemCmd
}

func newItemAddCmd(flags *globalFlags) *cobra.Command {
	var item gateway.Item
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a catalogue item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, created, err := app.AddItem(cmd.Context(), flags.options(), item)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added item %d: %s (%s @ %s)\n",
				created.ID, created.Name, created.Unit, grid.FormatAmount(created.Rate))
			return nil
		},
	}
	cmd.Flags().StringVar(&item.Name, "name", "", "item name")
	cmd.Flags().StringVar(&item.Unit, "unit", "unit", "unit of measure")
	cmd.Flags().Float64Var(&item.Rate, "rate", 0, "price per unit")
	cmd.Flags().StringVar(&item.Description, "description", "", "optional description")
	cmd.Flags().StringVar(&item.ImageURL, "image-url", "", "optional image address")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
