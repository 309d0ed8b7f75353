package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/pakketpunt/internal/models"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Geocode every pickup point missing from the cache and exit",
	RunE:  runResolve,
}

func runResolve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var bar *progressbar.ProgressBar
	progress := func(_ models.Address, _ bool) {
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	application, err := newApp(ctx, progress)
	if err != nil {
		return err
	}
	defer application.Close()

	if pending := len(application.resolver.Pending()); pending > 0 && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(pending,
			progressbar.OptionSetDescription("geocoding"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	report, err := application.resolver.Run(ctx)
	if bar != nil {
		_ = bar.Finish()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(report); encErr != nil {
		return encErr
	}

	return err
}
