package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/andresreyes/spotlists-backend/internal/places"
	"github.com/andresreyes/spotlists-backend/pkg/config"
	"github.com/andresreyes/spotlists-backend/pkg/db"
	"github.com/andresreyes/spotlists-backend/pkg/logger"
	"github.com/andresreyes/spotlists-backend/pkg/placeprovider"
)

// seed-places imports provider search results into the local catalog.
// Each query runs as one transaction so a partial batch never lands.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed-places"})

	_ = godotenv.Load()

	queriesFlag := flag.String("queries", "", "comma-separated search queries, e.g. 'tacos in austin,coffee in portland'")
	flag.Parse()

	queries := splitQueries(*queriesFlag)
	if len(queries) == 0 {
		fmt.Fprintln(os.Stderr, "missing -queries")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed-places",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	provider, err := placeprovider.NewClient(
		cfg.PlaceProvider.APIKey,
		placeprovider.WithHTTPClient(&http.Client{Timeout: cfg.PlaceProvider.Timeout}),
		placeprovider.WithBaseURL(cfg.PlaceProvider.BaseURL),
	)
	requireResource(ctx, logg, "place provider", err)

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	for _, query := range queries {
		queryCtx := logg.WithField(ctx, "query", query)

		records, err := provider.SearchText(ctx, query)
		if err != nil {
			logg.Error(queryCtx, "provider search failed", err)
			os.Exit(1)
		}
		if len(records) == 0 {
			logg.Warn(queryCtx, "no results for query")
			continue
		}

		imported := 0
		err = dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			svc, err := places.NewService(places.ServiceParams{Repo: places.NewRepository(tx)})
			if err != nil {
				return err
			}
			for _, record := range records {
				if _, err := svc.ImportRecord(ctx, record); err != nil {
					return fmt.Errorf("importing %s: %w", record.ProviderID, err)
				}
				imported++
			}
			return nil
		})
		if err != nil {
			logg.Error(queryCtx, "import batch failed", err)
			os.Exit(1)
		}

		logg.Info(logg.WithField(queryCtx, "imported", imported), "import batch complete")
	}
}

func splitQueries(raw string) []string {
	var queries []string
	for _, part := range strings.Split(raw, ",") {
		if q := strings.TrimSpace(part); q != "" {
			queries = append(queries, q)
		}
	}
	return queries
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
