package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"CreditExposure/internal/exposure"
	"CreditExposure/internal/recorder"
)

// ReportDeclines are the market value declines quoted in the text report.
var ReportDeclines = []float64{0.10, 0.20, 0.30, 0.50}

// Report is the input to FormatExposureReport.
type Report struct {
	RunID                  string
	GeneratedAt            time.Time
	Source                 string
	LoanCount              int
	ComparisonCount        int
	Dropped                int
	IncludeSecurityDeposit bool
	LTVCap                 *float64
	Curve                  *exposure.Curve
}

// FormatExposureReport formats a run into a Telegram message.
func FormatExposureReport(r *Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📉 <b>Credit Exposure Report</b> | %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Source: %s\n", html.EscapeString(r.Source)))
	b.WriteString(fmt.Sprintf("Loans: %d\n", r.LoanCount))
	if r.IncludeSecurityDeposit {
		b.WriteString("Security deposit: included\n")
	} else {
		b.WriteString("Security deposit: excluded\n")
	}
	if r.LTVCap != nil {
		b.WriteString(fmt.Sprintf("Comparison: LTV cap %.0f%% | %d loans, %d dropped\n", *r.LTVCap, r.ComparisonCount, r.Dropped))
	}

	if r.Curve != nil {
		b.WriteString("\n📊 <b>Principal loss by decline:</b>\n")
		for _, label := range r.Curve.Labels() {
			b.WriteString(fmt.Sprintf("  <i>%s</i>\n", label))
			parts := make([]string, 0, len(ReportDeclines))
			for _, d := range ReportDeclines {
				loss, ok := r.Curve.LossAt(label, d)
				if !ok {
					continue
				}
				parts = append(parts, fmt.Sprintf("%.0f%%→%.1f%%", d*100, loss*100))
			}
			b.WriteString("  " + strings.Join(parts, " | ") + "\n")
		}
	}

	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("\nRun: <code>%s</code>", r.RunID))
	}
	return b.String()
}

// FormatInvalidLoans lists the projects that blocked a run.
func FormatInvalidLoans(projectIDs []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("❌ <b>Invalid loans</b> (%d)\n\n", len(projectIDs)))
	b.WriteString("Nominal and market value must be positive, senior loan and security amount non-negative.\n")
	for _, id := range projectIDs {
		b.WriteString("• <code>" + html.EscapeString(id) + "</code>\n")
	}
	return b.String()
}

// FormatHistory lists recent runs.
func FormatHistory(runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return "No runs recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent runs</b>\n\n")
	for _, r := range runs {
		capText := "no cap"
		if r.LTVCap != nil {
			capText = fmt.Sprintf("cap %.0f%%", *r.LTVCap)
		}
		deposit := ""
		if r.IncludeSecurityDeposit {
			deposit = ", deposit"
		}
		b.WriteString(fmt.Sprintf("%s [%s] %d loans, %s%s\n",
			r.Timestamp.Format("2006-01-02 15:04"), r.Trigger, r.LoanCount, capText, deposit))
	}
	return b.String()
}
