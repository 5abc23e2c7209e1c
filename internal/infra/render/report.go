// internal/infra/render/report.go
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"internship_compliance_bot/internal/domain/compliance"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PlacementRow is one internship's compliance position, flattened for
// export.
type PlacementRow struct {
	InternshipID    int64  `json:"internship_id"`
	StudentName     string `json:"student_name"`
	Institution     string `json:"institution"`
	Tier            string `json:"tier"`
	ReportsExpected int    `json:"reports_expected"`
	ReportsReceived int    `json:"reports_received"`
	VisitsExpected  int    `json:"visits_expected"`
	VisitsReceived  int    `json:"visits_received"`
	NextDueDate     string `json:"next_due_date,omitempty"`
}

// InstitutionRow is one host institution's rollup.
type InstitutionRow struct {
	Institution    string `json:"institution"`
	Internships    int    `json:"internships"`
	Compliant      int    `json:"compliant"`
	DueSoon        int    `json:"due_soon"`
	Overdue        int    `json:"overdue"`
	Critical       int    `json:"critical"`
	MissingReports int    `json:"missing_reports"`
	MissingVisits  int    `json:"missing_visits"`
}

// Report is the full audit output: fleet totals, per-institution rollups
// and per-placement rows, all ordered worst first.
type Report struct {
	AsOf           string           `json:"as_of"`
	Internships    int              `json:"internships"`
	Compliant      int              `json:"compliant"`
	DueSoon        int              `json:"due_soon"`
	Overdue        int              `json:"overdue"`
	Critical       int              `json:"critical"`
	ComplianceRate float64          `json:"compliance_rate_percent"`
	Institutions   []InstitutionRow `json:"institutions"`
	Placements     []PlacementRow   `json:"placements"`
}

// BuildReport flattens evaluations and summaries into the export shape.
func BuildReport(asOf time.Time, evals []compliance.Evaluation, summaries []compliance.Summary) Report {
	report := Report{
		AsOf:        asOf.Format("2006-01-02"),
		Internships: len(evals),
	}

	received, expected := 0, 0
	for i := range evals {
		ev := &evals[i]
		switch ev.Tier {
		case compliance.TierCritical:
			report.Critical++
		case compliance.TierOverdue:
			report.Overdue++
		case compliance.TierDueSoon:
			report.DueSoon++
		default:
			report.Compliant++
		}
		received += ev.ReportsReceived + ev.VisitsReceived
		expected += ev.ReportsExpected + ev.VisitsExpected

		row := PlacementRow{
			InternshipID:    ev.Internship.ID,
			StudentName:     ev.Internship.StudentName,
			Institution:     ev.Internship.Institution,
			Tier:            string(ev.Tier),
			ReportsExpected: ev.ReportsExpected,
			ReportsReceived: ev.ReportsReceived,
			VisitsExpected:  ev.VisitsExpected,
			VisitsReceived:  ev.VisitsReceived,
		}
		if !ev.NextDueDate.IsZero() {
			row.NextDueDate = ev.NextDueDate.Format("2006-01-02")
		}
		report.Placements = append(report.Placements, row)
	}
	report.ComplianceRate = compliance.CompletionPercent(received, expected)

	for _, sum := range summaries {
		report.Institutions = append(report.Institutions, InstitutionRow{
			Institution:    sum.Institution,
			Internships:    sum.Internships,
			Compliant:      sum.Compliant,
			DueSoon:        sum.DueSoon,
			Overdue:        sum.Overdue,
			Critical:       sum.Critical,
			MissingReports: sum.MissingReports,
			MissingVisits:  sum.MissingVisits,
		})
	}
	return report
}

// RenderConsole prints the report as plain-bordered tables. Tier cells are
// colorized when colored is set and the writer is a terminal.
func (r Report) RenderConsole(w io.Writer, colored bool) {
	title := fmt.Sprintf("Internship Compliance Audit — as of %s", r.AsOf)
	if colored {
		color.New(color.Bold).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintf(w, "Tracked placements: %d (%d critical, %d overdue, %d due soon, %d compliant)\n",
		r.Internships, r.Critical, r.Overdue, r.DueSoon, r.Compliant)
	fmt.Fprintf(w, "Obligations met: %.1f%%\n\n", r.ComplianceRate)

	if len(r.Institutions) > 0 {
		fmt.Fprintln(w, "By institution")
		table := newTable(w)
		table.Header([]string{"Institution", "Placements", "Critical", "Overdue", "Due Soon", "Compliant", "Missing Reports", "Missing Visits"})
		for _, row := range r.Institutions {
			table.Append([]string{
				row.Institution,
				strconv.Itoa(row.Internships),
				strconv.Itoa(row.Critical),
				strconv.Itoa(row.Overdue),
				strconv.Itoa(row.DueSoon),
				strconv.Itoa(row.Compliant),
				strconv.Itoa(row.MissingReports),
				strconv.Itoa(row.MissingVisits),
			})
		}
		table.Render()
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "By placement (worst first)")
	table := newTable(w)
	table.Header([]string{"ID", "Student", "Institution", "Tier", "Reports", "Visits", "Next Due"})
	for _, row := range r.Placements {
		table.Append([]string{
			strconv.FormatInt(row.InternshipID, 10),
			row.StudentName,
			row.Institution,
			tierCell(row.Tier, colored),
			fmt.Sprintf("%d/%d", row.ReportsReceived, row.ReportsExpected),
			fmt.Sprintf("%d/%d", row.VisitsReceived, row.VisitsExpected),
			row.NextDueDate,
		})
	}
	table.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)
}

func tierCell(tier string, colored bool) string {
	if !colored {
		return tier
	}
	switch tier {
	case string(compliance.TierCritical):
		return color.RedString(tier)
	case string(compliance.TierOverdue):
		return color.YellowString(tier)
	case string(compliance.TierDueSoon):
		return color.CyanString(tier)
	default:
		return color.GreenString(tier)
	}
}

// WriteJSON saves the full report to a file.
func (r Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteAlertsCSV saves the placements at or above minTier to a CSV file,
// one row per placement needing attention.
func (r Report) WriteAlertsCSV(path string, minTier compliance.Tier) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"internship_id", "student_name", "institution", "tier", "reports_received", "reports_expected", "visits_received", "visits_expected", "next_due_date"}
	if err := writer.Write(header); err != nil {
		return err
	}

	threshold := minTier.Rank()
	for _, row := range r.Placements {
		if compliance.Tier(row.Tier).Rank() < threshold {
			continue
		}
		record := []string{
			strconv.FormatInt(row.InternshipID, 10),
			row.StudentName,
			row.Institution,
			row.Tier,
			strconv.Itoa(row.ReportsReceived),
			strconv.Itoa(row.ReportsExpected),
			strconv.Itoa(row.VisitsReceived),
			strconv.Itoa(row.VisitsExpected),
			row.NextDueDate,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}
