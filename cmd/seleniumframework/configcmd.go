package main

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Prints the resolved configuration as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			shown := *cfg
			if shown.Sauce.AccessKey != "" {
				shown.Sauce.AccessKey = "****"
			}
			data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(shown, "", "  ")
			if err != nil {
				return fmt.Errorf("error encoding config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
