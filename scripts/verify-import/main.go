// verify-import reports what an import run actually persisted: entity
// counts, per-floor and per-day schedule distributions, and a scan for
// natural-key violations. Run it after an import to confirm the database
// matches expectations.
//
// Usage: go run ./scripts/verify-import [-config config.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/slateworks/timetable-engine/pkg/config"
	"github.com/slateworks/timetable-engine/pkg/database"
	"github.com/slateworks/timetable-engine/pkg/models"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath, "dev")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: 2,
	})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer db.Close()

	if err := printEntityCounts(ctx, db); err != nil {
		return err
	}
	if err := printFloorBreakdown(ctx, db); err != nil {
		return err
	}
	if err := printDayDistribution(ctx, db); err != nil {
		return err
	}
	if err := printSentinelUsage(ctx, db); err != nil {
		return err
	}
	return scanNaturalKeyViolations(ctx, db)
}

func printEntityCounts(ctx context.Context, db *database.DB) error {
	fmt.Println("Entity counts:")
	for _, table := range []string{"floors", "classes", "teachers", "subjects", "schedules", "attendances"} {
		var count int64
		if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return fmt.Errorf("failed to count %s: %w", table, err)
		}
		fmt.Printf("  %-12s %d\n", table, count)
	}
	return nil
}

func printFloorBreakdown(ctx context.Context, db *database.DB) error {
	query := `
		SELECT f.number, f.name, COUNT(DISTINCT c.id), COUNT(s.id)
		FROM floors f
		LEFT JOIN classes c ON c.floor_id = f.id
		LEFT JOIN schedules s ON s.class_id = c.id
		GROUP BY f.number, f.name
		ORDER BY f.number`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query floor breakdown: %w", err)
	}
	defer rows.Close()

	fmt.Println("\nPer floor:")
	for rows.Next() {
		var number int
		var name string
		var classCount, scheduleCount int64
		if err := rows.Scan(&number, &name, &classCount, &scheduleCount); err != nil {
			return fmt.Errorf("failed to scan floor row: %w", err)
		}
		fmt.Printf("  floor %d (%s): %d classes, %d schedules\n", number, name, classCount, scheduleCount)
	}
	return rows.Err()
}

func printDayDistribution(ctx context.Context, db *database.DB) error {
	query := `
		SELECT day_of_week, COUNT(*)
		FROM schedules
		GROUP BY day_of_week
		ORDER BY day_of_week`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query day distribution: %w", err)
	}
	defer rows.Close()

	fmt.Println("\nSchedules per day:")
	for rows.Next() {
		var day int
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return fmt.Errorf("failed to scan day row: %w", err)
		}
		fmt.Printf("  %-10s %d\n", models.Weekday(day), count)
	}
	return rows.Err()
}

func printSentinelUsage(ctx context.Context, db *database.DB) error {
	query := `
		SELECT COUNT(*)
		FROM schedules s
		JOIN subjects sub ON sub.id = s.subject_id
		WHERE sub.name = $1`

	var freeCount int64
	if err := db.QueryRow(ctx, query, models.SentinelSubjectName).Scan(&freeCount); err != nil {
		return fmt.Errorf("failed to count free periods: %w", err)
	}
	fmt.Printf("\nFree-period schedules: %d\n", freeCount)
	return nil
}

// scanNaturalKeyViolations looks for duplicate (class, day, start, end)
// groups. The unique constraint makes these impossible through the import
// path; any hit means the constraint was dropped or bypassed.
func scanNaturalKeyViolations(ctx context.Context, db *database.DB) error {
	query := `
		SELECT class_id, day_of_week, start_time, end_time, COUNT(*)
		FROM schedules
		GROUP BY class_id, day_of_week, start_time, end_time
		HAVING COUNT(*) > 1`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to scan for violations: %w", err)
	}
	defer rows.Close()

	violations := 0
	for rows.Next() {
		var classID string
		var day int
		var start, end time.Time
		var count int64
		if err := rows.Scan(&classID, &day, &start, &end, &count); err != nil {
			return fmt.Errorf("failed to scan violation row: %w", err)
		}
		violations++
		fmt.Printf("VIOLATION: class %s %s %s-%s has %d rows\n",
			classID, models.Weekday(day), start.Format("15:04"), end.Format("15:04"), count)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if violations == 0 {
		fmt.Println("Natural key check: OK (no duplicates)")
	} else {
		return fmt.Errorf("%d natural key violations found", violations)
	}
	return nil
}
