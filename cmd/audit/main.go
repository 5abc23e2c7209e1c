// cmd/audit/main.go
//
// One-shot compliance audit over the tracked internship fleet: prints a
// console report, optionally exports JSON and an alerts CSV, and optionally
// persists the run as an immutable snapshot in Postgres.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"internship_compliance_bot/internal/app"
	"internship_compliance_bot/internal/domain/compliance"
	idb "internship_compliance_bot/internal/infra/database"
	"internship_compliance_bot/internal/infra/render"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	asOfFlag := flag.String("as-of", "", "Audit as-of date (YYYY-MM-DD); defaults to today")
	jsonOut := flag.String("json", "", "Optional JSON output path")
	alertsOut := flag.String("alerts", "", "Optional CSV output for placements at or above --min-tier")
	minTier := flag.String("min-tier", "overdue", "Minimum tier for alerts (due_soon, overdue, critical)")
	storeRun := flag.Bool("store", false, "Persist this audit run in Postgres")
	runTag := flag.String("tag", "", "Optional label for a stored audit run")
	initDB := flag.Bool("init-db", false, "Create the schema and seed demo data if the database is empty")
	leadDays := flag.Int("due-soon-lead", 7, "Days before a due date during which a placement counts as due soon")
	criticalMissing := flag.Int("critical-missing", 3, "Missing obligations at which a placement becomes critical")
	noColor := flag.Bool("no-color", false, "Disable colored console output")
	flag.Parse()

	asOf := time.Now()
	if *asOfFlag != "" {
		parsed, err := time.Parse("2006-01-02", *asOfFlag)
		if err != nil {
			exitWithError(fmt.Errorf("invalid --as-of date: %w", err))
		}
		asOf = parsed
	}

	alertTier, err := parseTier(*minTier)
	if err != nil {
		exitWithError(err)
	}

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is not set"))
	}

	db, err := idb.NewPostgresConnection(dbURL)
	if err != nil {
		exitWithError(err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *initDB {
		if err := idb.EnsureSchema(ctx, db); err != nil {
			exitWithError(err)
		}
		seeded, err := idb.SeedDemo(ctx, db, asOf)
		if err != nil {
			exitWithError(err)
		}
		if seeded {
			fmt.Println("Initialized schema and seeded demo internships.")
		} else {
			fmt.Println("Initialized schema; existing data left untouched.")
		}
	}

	// The audit is quiet on stdout apart from the report itself; service
	// logging goes to stderr and only for warnings and up.
	auditLogger := logrus.New()
	auditLogger.SetOutput(os.Stderr)
	auditLogger.SetLevel(logrus.WarnLevel)

	policy := compliance.Policy{
		DueSoonLeadDays: *leadDays,
		CriticalMissing: *criticalMissing,
	}
	complianceService := app.NewComplianceServiceWithClock(
		idb.NewPostgresInternshipRepository(db),
		idb.NewPostgresSubmissionRepository(db),
		auditLogger.WithField("component", "compliance_service"),
		policy,
		func() time.Time { return asOf },
	)

	evals, err := complianceService.EvaluateAll(ctx)
	if err != nil {
		exitWithError(err)
	}
	summaries := compliance.Summarize(evals)

	report := render.BuildReport(asOf, evals, summaries)
	report.RenderConsole(os.Stdout, !*noColor)

	if *jsonOut != "" {
		if err := report.WriteJSON(*jsonOut); err != nil {
			exitWithError(err)
		}
		fmt.Printf("\nJSON report saved to %s\n", *jsonOut)
	}

	if *alertsOut != "" {
		if err := report.WriteAlertsCSV(*alertsOut, alertTier); err != nil {
			exitWithError(err)
		}
		fmt.Printf("Alert CSV saved to %s\n", *alertsOut)
	}

	if *storeRun {
		runID, err := idb.NewSnapshotStore(db).StoreRun(ctx, asOf, *runTag, evals, summaries)
		if err != nil {
			exitWithError(err)
		}
		fmt.Printf("\nStored audit run in Postgres (run_id=%s)\n", runID)
	}
}

func parseTier(value string) (compliance.Tier, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "due_soon":
		return compliance.TierDueSoon, nil
	case "overdue":
		return compliance.TierOverdue, nil
	case "critical":
		return compliance.TierCritical, nil
	}
	return "", fmt.Errorf("invalid --min-tier value: %s", value)
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
