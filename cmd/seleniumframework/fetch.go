package main

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/wanmail/seleniumframework/internal/download"
)

func newFetchDriversCmd() *cobra.Command {
	var (
		dir         string
		chromeBuild string
		browsers    []string
	)
	cmd := &cobra.Command{
		Use:   "fetch-drivers",
		Short: "Downloads chromedriver and geckodriver.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var files []download.File
			for _, b := range browsers {
				var (
					f   download.File
					err error
				)
				switch b {
				case "chrome":
					f, err = download.ChromeDriverFile(ctx, chromeBuild)
				case "firefox":
					f, err = download.GeckodriverFile(ctx, nil)
				default:
					return fmt.Errorf("unknown browser %q", b)
				}
				if err != nil {
					return err
				}
				glog.Infof("Found %s %s", f.Name, f.Version)
				files = append(files, f)
			}
			if err := download.DownloadAll(ctx, dir, files); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d drivers to %s\n", len(files), dir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "drivers", "Directory to download to")
	cmd.Flags().StringVar(&chromeBuild, "chrome-build", "", "Chromium snapshot build (default latest)")
	cmd.Flags().StringSliceVarP(&browsers, "browsers", "b", []string{"chrome", "firefox"}, "Browsers to fetch drivers for")
	return cmd
}
