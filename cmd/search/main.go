package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"auraestate-backend/internal/client"
	"auraestate-backend/internal/config"
	"auraestate-backend/internal/filterstate"
	"auraestate-backend/internal/pkg/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	var (
		search   = flag.String("q", "", "free-text search")
		mode     = flag.String("type", "", "rent or sale")
		bedrooms = flag.String("bedrooms", "", `"Studio", an exact count, or "N+"`)
		features = flag.String("features", "", "comma separated features (any match)")
		minPrice = flag.String("min", "", "minimum price")
		maxPrice = flag.String("max", "", "maximum price")
		limit    = flag.Int("limit", 12, "page size")
		token    = flag.String("token", os.Getenv("AURA_TOKEN"), "bearer token")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	logging.Setup(cfg.LogLevel, "console")

	opts := []client.Option{client.WithRetries(2)}
	if *token != "" {
		opts = append(opts, client.WithToken(*token))
	}
	api := client.New(cfg.APIBaseURL, opts...)

	filters := filterstate.Filters{
		Bedrooms: *bedrooms,
		Type:     filterstate.ListingMode(strings.ToLower(*mode)),
	}
	for _, f := range strings.Split(*features, ",") {
		if f = strings.TrimSpace(f); f != "" {
			filters.Features = append(filters.Features, f)
		}
	}
	if *minPrice != "" || *maxPrice != "" {
		filters.PriceRange = &filterstate.PriceRange{Min: parsePrice(*minPrice), Max: parsePrice(*maxPrice)}
	}

	done := make(chan filterstate.Snapshot, 1)
	store := filterstate.New(api, filterstate.Options{
		Debounce: 50 * time.Millisecond,
		Limit:    *limit,
		OnChange: func(s filterstate.Snapshot) {
			select {
			case done <- s:
			default:
			}
		},
	})
	defer store.Close()
	store.SetSearchQuery(*search)
	store.SetFilters(filters)

	snap := <-done
	switch snap.Status {
	case filterstate.StatusFailed:
		log.Fatal().Err(snap.Err).Msg("search failed")
	case filterstate.StatusEmpty:
		fmt.Println("No properties found")
		return
	}
	fmt.Printf("%d of %d properties\n", len(snap.Properties), snap.Total)
	for _, p := range snap.Properties {
		fmt.Printf("%s  %-32s %10.0f %-7s %dbd %.1fba %s, %s\n",
			p.ID, p.Title, p.Price, p.PriceType, p.Bedrooms, p.Bathrooms, p.City, p.State)
	}
}

func parsePrice(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}
