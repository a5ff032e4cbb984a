package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/wanmail/seleniumframework/util"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Works with the HTML reports.",
	}
	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serves the report directory over HTTP until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			dir := reportDir(cfg.Report.Dir)
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("error listening on %s: %w", addr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s/\n", dir, ln.Addr())
			return serveReports(cmd.Context(), ln, dir)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "localhost:8080", "Address to listen on")
	cmd.AddCommand(serve)
	return cmd
}

// reportDir resolves a relative report directory against the project root.
func reportDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	if root, err := util.ProjectDir(); err == nil {
		return filepath.Join(root, dir)
	}
	return dir
}

// serveReports serves dir on ln until ctx is done.
func serveReports(ctx context.Context, ln net.Listener, dir string) error {
	srv := &http.Server{Handler: http.FileServer(http.Dir(dir))}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	glog.Info("Shutting down the report server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
