// Binary seleniumframework prepares and inspects the environment of a test
// project: it downloads WebDriver binaries, prints the resolved
// configuration and serves the HTML reports.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/golang/glog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	err := root.ExecuteContext(ctx)
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
