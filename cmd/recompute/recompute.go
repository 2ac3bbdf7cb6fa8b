// Package recompute implements the recompute command, a one-shot batch
// re-derivation of every automatic threshold from stored mission feedback.
package recompute

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/now-man/a4s-dshbrd-250831/internal/conf"
	"github.com/now-man/a4s-dshbrd-250831/internal/dashboard"
	"github.com/now-man/a4s-dshbrd-250831/internal/datastore"
	"github.com/now-man/a4s-dshbrd-250831/internal/forecast"
	"github.com/now-man/a4s-dshbrd-250831/internal/observability"
)

// Command creates the recompute command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Recompute automatic thresholds for all equipment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecompute(settings)
		},
	}
}

func runRecompute(settings *conf.Settings) error {
	store := datastore.New(settings)
	if store == nil {
		return fmt.Errorf("no database backend enabled in configuration")
	}
	if err := store.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := datastore.EnsureUnitProfile(store, &settings.Unit); err != nil {
		return fmt.Errorf("failed to prepare unit profile: %w", err)
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	forecastService, err := forecast.NewService(settings, metrics.Forecast)
	if err != nil {
		return fmt.Errorf("failed to initialize forecast service: %w", err)
	}

	dash := dashboard.NewService(settings, store, forecastService, nil, metrics.Datastore)

	results, err := dash.RecomputeAll()
	if err != nil {
		return fmt.Errorf("recompute failed: %w", err)
	}

	for name, estimate := range results {
		if estimate == nil {
			fmt.Printf("%s: insufficient mission feedback, keeping manual fallback\n", name)
			continue
		}
		fmt.Printf("%s: auto threshold %.2f m\n", name, *estimate)
	}
	return nil
}
