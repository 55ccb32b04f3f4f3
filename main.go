package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/slateworks/timetable-engine/pkg/config"
	"github.com/slateworks/timetable-engine/pkg/database"
	"github.com/slateworks/timetable-engine/pkg/document"
	"github.com/slateworks/timetable-engine/pkg/extraction"
	"github.com/slateworks/timetable-engine/pkg/logging"
	"github.com/slateworks/timetable-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	var (
		configPath  = flag.String("config", "config.yaml", "path to configuration file")
		floorsSpec  = flag.String("floors", "", "floor documents as number=path pairs, e.g. 1=floor1.pdf,2=floor2.pdf")
		mode        = flag.String("mode", "", "extraction mode: sparse or complete (overrides config)")
		clear       = flag.Bool("clear", false, "delete each floor's existing schedules before importing")
		dayFallback = flag.Bool("day-fallback", false, "use page index as day of week when no day token is found")
	)
	flag.Parse()

	if *floorsSpec == "" {
		fmt.Fprintln(os.Stderr, "usage: timetable-engine -floors 1=floor1.pdf[,2=floor2.pdf...] [-mode sparse|complete] [-clear] [-day-fallback]")
		os.Exit(2)
	}

	docs, err := parseFloorsSpec(*floorsSpec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -floors value: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath, Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, docs, *mode, *clear, *dayFallback, logger); err != nil {
		logger.Error("Import run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, docs []services.FloorDocument, modeFlag string, clear, dayFallback bool, logger *zap.Logger) error {
	modeName := cfg.Import.Mode
	if modeFlag != "" {
		modeName = modeFlag
	}
	mode, err := extraction.ParseMode(modeName)
	if err != nil {
		return err
	}

	catalog, err := buildCatalog(cfg.Import.Periods)
	if err != nil {
		return fmt.Errorf("invalid period catalog: %w", err)
	}

	connStr := cfg.Database.ConnectionString()
	logger.Info("Connecting to database", zap.String("dsn", logging.SanitizeConnectionString(connStr)))

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            connStr,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Migrations run over database/sql (required by golang-migrate).
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open sql connection: %w", err)
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	_ = sqlDB.Close()

	extractor := extraction.NewExtractor(catalog, extraction.NewClassifier(), extraction.Options{
		Mode:             mode,
		DayFromPageIndex: dayFallback || cfg.Import.DayFromPageIndex,
	}, logger)

	importer := services.NewImportService(services.NewRepositories(db), services.NewTxRunner(db), logger)
	runner := services.NewImportRunner(document.NewPDFSource(), extractor, importer, logger)

	opts := services.ImportOptions{ClearExisting: clear || cfg.Import.ClearExisting}

	logger.Info("Starting import run",
		zap.String("version", cfg.Version),
		zap.Stringer("mode", mode),
		zap.Bool("clear_existing", opts.ClearExisting),
		zap.Int("floors", len(docs)))

	summary, err := runner.Run(ctx, docs, opts)
	if err != nil {
		return err
	}

	printSummary(summary)

	if summary.FloorsAttempted > 0 && summary.FloorsSucceeded == 0 {
		return fmt.Errorf("all %d floors failed", summary.FloorsFailed)
	}
	return nil
}

// parseFloorsSpec parses "1=floor1.pdf,2=floor2.pdf" into floor documents,
// ordered by floor number.
func parseFloorsSpec(spec string) ([]services.FloorDocument, error) {
	var docs []services.FloorDocument
	seen := make(map[int]bool)

	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		number, path, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected number=path, got %q", pair)
		}
		floor, err := strconv.Atoi(strings.TrimSpace(number))
		if err != nil {
			return nil, fmt.Errorf("invalid floor number in %q", pair)
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return nil, fmt.Errorf("missing document path in %q", pair)
		}
		if seen[floor] {
			return nil, fmt.Errorf("floor %d specified twice", floor)
		}
		seen[floor] = true
		docs = append(docs, services.FloorDocument{FloorNumber: floor, Path: path})
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no floor documents specified")
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].FloorNumber < docs[j].FloorNumber })
	return docs, nil
}

func buildCatalog(periods []config.PeriodConfig) (*extraction.Catalog, error) {
	if len(periods) == 0 {
		return extraction.DefaultCatalog(), nil
	}

	entries := make([]extraction.Period, 0, len(periods))
	for _, p := range periods {
		start, err := extraction.ParseClock(p.Start)
		if err != nil {
			return nil, fmt.Errorf("period %d start: %w", p.ID, err)
		}
		end, err := extraction.ParseClock(p.End)
		if err != nil {
			return nil, fmt.Errorf("period %d end: %w", p.ID, err)
		}
		entries = append(entries, extraction.Period{ID: p.ID, Slot: extraction.Slot{Start: start, End: end}})
	}
	return extraction.NewCatalog(entries)
}

func printSummary(summary *services.RunSummary) {
	fmt.Printf("Floors: %d attempted, %d succeeded, %d failed\n",
		summary.FloorsAttempted, summary.FloorsSucceeded, summary.FloorsFailed)

	for _, result := range summary.PerFloor {
		if result.Err != nil {
			fmt.Printf("  floor %d (%s): FAILED: %v\n", result.FloorNumber, result.Path, result.Err)
			continue
		}
		fmt.Printf("  floor %d (%s): pages %d processed / %d skipped; imported %d (academic %d, free %d), duplicates %d, invalid %d, errors %d\n",
			result.FloorNumber, result.Path,
			result.Extraction.PagesProcessed, result.Extraction.PagesSkipped,
			result.Stats.Imported, result.Stats.Academic, result.Stats.FreePeriods,
			result.Stats.SkippedDuplicate, result.Stats.SkippedInvalid, result.Stats.Errors)
		if result.Stats.SchedulesCleared > 0 {
			fmt.Printf("    cleared %d existing schedules\n", result.Stats.SchedulesCleared)
		}
	}
}
