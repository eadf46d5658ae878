package recorder

import (
	"time"

	"CreditExposure/internal/model"
)

// RunSnapshot holds everything persisted for one exposure run.
type RunSnapshot struct {
	RunID                  string // assigned by RecordRun when empty
	Trigger                string // "cron", "command", "startup", "cli"
	Source                 string
	IncludeSecurityDeposit bool
	LTVCap                 *float64 // nil when no comparison portfolio was built
	LoanCount              int
	ComparisonCount        int
	Dropped                int
	Rows                   []model.Row
}

// RunSummary is one row of the run history.
type RunSummary struct {
	RunID                  string
	Timestamp              time.Time
	Trigger                string
	Source                 string
	IncludeSecurityDeposit bool
	LTVCap                 *float64
	LoanCount              int
	ComparisonCount        int
	Dropped                int
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	Recent(limit int) ([]RunSummary, error)
	Close() error
}
