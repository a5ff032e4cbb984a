package main

import (
	"github.com/spf13/cobra"

	"github.com/wanmail/seleniumframework/config"
)

type rootOptions struct {
	configPath string
}

func (o *rootOptions) load() (*config.Config, error) {
	p := o.configPath
	if p == "" {
		p = config.DefaultPath()
	}
	return config.Load(p)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "seleniumframework",
		Short: "Tooling for browser test projects.",
		Long: `
Tooling for browser test projects.

Settings are read from config.json at the project root, or from the file
named by --config or SF_CONFIG. Any setting may be overridden with an
SF_-prefixed environment variable, e.g. SF_BROWSER=firefox.
`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default config.json at the project root)")

	cmd.AddCommand(
		newFetchDriversCmd(),
		newConfigCmd(opts),
		newReportCmd(opts),
	)
	return cmd
}
