package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	poedata "github.com/weo-soft/poeData-sub000"
	"github.com/weo-soft/poeData-sub000/dataset"
	"github.com/weo-soft/poeData-sub000/estimate"
	"github.com/weo-soft/poeData-sub000/kvstore"
	"github.com/weo-soft/poeData-sub000/manifest"
	"github.com/weo-soft/poeData-sub000/resource"
	"github.com/weo-soft/poeData-sub000/testutil"
)

func main() {
	ctx := context.Background()

	trueWeights := estimate.WeightMap{
		"scroll-of-wisdom": 0.55,
		"chaos-orb":        0.25,
		"orb-of-alchemy":   0.12,
		"exalted-orb":      0.06,
		"divine-orb":       0.018,
		"mirror-shard":     0.002,
	}

	rng := testutil.NewRNG(4711)
	records := []dataset.Record{
		testutil.GenerateRecord(rng, trueWeights, 200000),
		testutil.GenerateRecord(rng, trueWeights, 150000),
	}

	m := &manifest.Manifest{
		LastUpdated: time.Now().UTC().Truncate(time.Hour),
		Datasets: []manifest.Entry{
			{Number: 1, Filename: "league-week-1.csv"},
			{Number: 2, Filename: "league-week-2.csv"},
		},
	}

	store, err := kvstore.NewDisk(kvstore.DiskConfig{
		RootDir:    "./cache",
		Controller: resource.NewController(resource.Config{QuotaBytes: 32 << 20}),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	metrics := &poedata.BasicMetricsCollector{}
	eng, err := poedata.New(
		poedata.WithStore(store),
		poedata.WithMetricsCollector(metrics),
		poedata.WithLogger(poedata.NewTextLogger(slog.LevelInfo)),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	fmt.Println("--- MLE ---")

	start := time.Now()
	weights, err := eng.WeightsMLE(ctx, "currency", records, m)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Computed in %s\n", time.Since(start))
	for id, w := range weights {
		fmt.Printf("  %-18s %.5f (true %.5f)\n", id, w, trueWeights[id])
	}

	fmt.Println("\n--- Bayesian ---")

	start = time.Now()
	result, err := eng.WeightsBayesian(ctx, "currency", records, m,
		func(o *estimate.BayesOptions) {
			o.SampleCount = 8000
		})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Computed in %s (adequate: %v)\n", time.Since(start), result.Diagnostics.Adequate)
	for id, s := range result.Summary {
		fmt.Printf("  %-18s mean %.5f  95%% CI [%.5f, %.5f]\n", id, s.Mean, s.CILow, s.CIHigh)
	}

	fmt.Println("\n--- Cached second run ---")

	start = time.Now()
	if _, err := eng.WeightsBayesian(ctx, "currency", records, m); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Returned in %s\n", time.Since(start))

	stats := metrics.GetStats()
	fmt.Printf("\nEstimates: %d, cache hits: %d, stores: %d\n",
		stats.EstimateCount, stats.CacheHits, stats.CacheStores)
}
