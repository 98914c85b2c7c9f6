// Package main implements the boussole CLI for geo-economic market analysis.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/boussole-dz/boussole/pkg/config"
	"github.com/boussole-dz/boussole/pkg/demand"
	"github.com/boussole-dz/boussole/pkg/geo"
	"github.com/boussole-dz/boussole/pkg/geocache"
	"github.com/boussole-dz/boussole/pkg/googlemaps"
	"github.com/boussole-dz/boussole/pkg/timeseries"
	"github.com/boussole-dz/boussole/pkg/wilaya"
	"github.com/joho/godotenv"
)

var (
	mapsAPIKey = flag.String("maps-key", "", "Google Maps API key (or set BOUSSOLE_MAPS_API_KEY)")
	dbDSN      = flag.String("db-dsn", "", "Database connection string (or set BOUSSOLE_DB_DSN)")
	dbDriver   = flag.String("db-driver", "", "Database driver: postgres or sqlite (or set BOUSSOLE_DB_DRIVER)")
	wilayaFile = flag.String("wilayas", "", "YAML file with wilaya records (default: built-in table)")
	radius     = flag.Int("radius", geo.DefaultRadius, "Search radius in meters for area analysis")
	placeType  = flag.String("type", "", "Restrict area analysis to one place type (e.g. restaurant)")
	limit      = flag.Int("limit", demand.DefaultOpportunityLimit, "Maximum sectors in an opportunity ranking")
	noCache    = flag.Bool("no-cache", false, "Disable result caching")
	jsonOut    = flag.Bool("json", false, "Emit raw JSON instead of formatted output")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Show version")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [flags] <command> [args]

Commands:
  area <lat> <lon> | area <wilaya> Full area intelligence report
  demand <sector> [wilaya]         Demand score for a sector
  opportunities [wilaya]           Ranked sector opportunities
  feasibility <sector> [wilaya]    Business feasibility report
  sectors                          List known sector codes
  wilayas                          List known wilaya codes

Flags:
`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	_ = godotenv.Load()
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Println("boussole CLI v1.0.0")
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *mapsAPIKey != "" {
		cfg.Maps.APIKey = *mapsAPIKey
	}
	if *dbDSN != "" {
		cfg.Database.DSN = *dbDSN
	}
	if *dbDriver != "" {
		cfg.Database.Driver = *dbDriver
	}

	geoSvc, demandSvc, resolver, err := buildServices(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := dispatch(ctx, args, geoSvc, demandSvc, resolver); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, logger *slog.Logger) (*geo.Service, *demand.Service, wilaya.Resolver, error) {
	var provider geo.Provider
	if cfg.Maps.APIKey != "" {
		provider = googlemaps.NewClient(cfg.Maps.APIKey, nil, logger)
	} else {
		logger.Debug("no maps API key, geo intelligence disabled")
	}

	var cache *geocache.Cache
	if !*noCache {
		store := geocache.NewOtterStore(cfg.Cache.MaxEntries, cfg.Cache.PlacesTTL)
		cache = geocache.New(store, logger,
			geocache.WithNamespaceTTL(geocache.NamespacePlaces, cfg.Cache.PlacesTTL),
			geocache.WithNamespaceTTL(geocache.NamespaceTraffic, cfg.Cache.TrafficTTL),
			geocache.WithNamespaceTTL(geocache.NamespaceScore, cfg.Cache.ScoreTTL),
			geocache.WithNamespaceTTL(geocache.NamespaceIntelligence, cfg.Cache.IntelligenceTTL),
		)
	}
	geoSvc := geo.New(provider, cache, logger)

	var resolver wilaya.Resolver
	var series timeseries.Store
	switch {
	case cfg.Database.DSN != "":
		sqlResolver, err := wilaya.NewSQL(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}
		resolver = sqlResolver
		series = timeseries.NewSQLFromDB(sqlResolver.DB())
	case *wilayaFile != "":
		loaded, err := wilaya.LoadYAML(*wilayaFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load wilayas: %w", err)
		}
		resolver = loaded
	default:
		resolver = wilaya.NewStatic()
	}

	return geoSvc, demand.New(geoSvc, resolver, series, logger), resolver, nil
}

func dispatch(ctx context.Context, args []string, geoSvc *geo.Service, demandSvc *demand.Service, resolver wilaya.Resolver) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "area":
		return runArea(ctx, geoSvc, resolver, rest)
	case "demand":
		return runDemand(ctx, demandSvc, rest)
	case "opportunities":
		return runOpportunities(ctx, demandSvc, rest)
	case "feasibility":
		return runFeasibility(ctx, demandSvc, rest)
	case "sectors":
		printSectors()
		return nil
	case "wilayas":
		printWilayas()
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runArea(ctx context.Context, svc *geo.Service, resolver wilaya.Resolver, args []string) error {
	q := geo.Query{RadiusMeters: *radius, PlaceType: *placeType}
	switch len(args) {
	case 1:
		// A single argument is a wilaya code; analyze around its capital.
		w, err := resolver.Lookup(ctx, args[0])
		if err != nil {
			return fmt.Errorf("wilaya %s: %w", args[0], err)
		}
		if !w.HasCoordinates() {
			return fmt.Errorf("wilaya %s has no coordinates", args[0])
		}
		q.Lat = w.Latitude
		q.Lon = w.Longitude
		if *radius == geo.DefaultRadius {
			q.RadiusMeters = 2000
		}
	case 2:
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q", args[0])
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q", args[1])
		}
		q.Lat = lat
		q.Lon = lon
	default:
		return fmt.Errorf("usage: area <lat> <lon> | area <wilaya>")
	}

	report, err := svc.AreaIntelligence(ctx, q)
	if err != nil {
		return err
	}
	if *jsonOut {
		return emitJSON(report)
	}
	printArea(report)
	return nil
}

func runDemand(ctx context.Context, svc *demand.Service, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: demand <sector> [wilaya]")
	}
	sector, err := demand.ParseSector(args[0])
	if err != nil {
		return err
	}
	var code string
	if len(args) == 2 {
		code = args[1]
	}

	score, err := svc.Score(ctx, sector, code)
	if err != nil {
		return err
	}
	if *jsonOut {
		return emitJSON(score)
	}
	printDemand(score)
	return nil
}

func runOpportunities(ctx context.Context, svc *demand.Service, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: opportunities [wilaya]")
	}
	var code string
	if len(args) == 1 {
		code = args[0]
	}

	opps, err := svc.SectorOpportunities(ctx, code, *limit)
	if err != nil {
		return err
	}
	if *jsonOut {
		return emitJSON(opps)
	}
	printOpportunities(opps, code)
	return nil
}

func runFeasibility(ctx context.Context, svc *demand.Service, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: feasibility <sector> [wilaya]")
	}
	sector, err := demand.ParseSector(args[0])
	if err != nil {
		return err
	}
	var code string
	if len(args) == 2 {
		code = args[1]
	}

	report, err := svc.FeasibilityReport(ctx, sector, code)
	if err != nil {
		return err
	}
	if *jsonOut {
		return emitJSON(report)
	}
	printFeasibility(report)
	return nil
}

// resolverForListing returns the static table the listing command prints.
// Database-backed resolvers answer lookups only.
func resolverForListing() *wilaya.StaticResolver {
	if *wilayaFile != "" {
		if loaded, err := wilaya.LoadYAML(*wilayaFile); err == nil {
			return loaded
		}
	}
	return wilaya.NewStatic()
}

func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
