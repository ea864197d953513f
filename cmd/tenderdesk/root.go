package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/tenderdesk/internal/app"
)

// Version is set at build time.
var Version = "0.1.0"

type globalFlags struct {
	config string
	api    string
	poll   time.Duration
	debug  bool
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.config, "config", "", "config file (default: ~/.config/tenderdesk/config.toml)")
	fs.StringVar(&g.api, "api", "", "procurement API address, overrides api_url")
	fs.DurationVar(&g.poll, "poll", 0, "dashboard refresh interval, overrides poll_interval")
	fs.BoolVar(&g.debug, "debug", false, "log gateway traffic at debug level")
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath: g.config,
		APIURL:     g.api,
		PollEvery:  g.poll,
		Debug:      g.debug,
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "tenderdesk",
		Short: "Terminal console for tender and procurement workflows",
		Long: `tenderdesk signs in to the procurement API and opens a keyboard driven
console for tenders, contracts, purchase orders, delivery milestones and
payments. Each role sees only the views it is allowed to use.`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newDashboardCmd(flags))
	rootCmd.AddCommand(newItemCmd(flags))
	rootCmd.AddCommand(newMockAPICmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
