package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"CreditExposure/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RecordAndRecent(t *testing.T) {
	r := openTestRecorder(t)
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	tick := 0
	r.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	}

	capPct := 80.0
	first := &RunSnapshot{
		Trigger:         "cron",
		Source:          "csv:loans.csv",
		LTVCap:          &capPct,
		LoanCount:       3,
		ComparisonCount: 2,
		Dropped:         1,
		Rows: []model.Row{
			{Decline: 0, Series: "unweighted", LossRatio: 0},
			{Decline: 1, Series: "unweighted", LossRatio: 1},
		},
	}
	if err := r.RecordRun(first); err != nil {
		t.Fatal(err)
	}
	if first.RunID == "" {
		t.Fatal("expected run id to be assigned")
	}
	second := &RunSnapshot{Trigger: "command", Source: "mock", IncludeSecurityDeposit: true, LoanCount: 3}
	if err := r.RecordRun(second); err != nil {
		t.Fatal(err)
	}

	runs, err := r.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != second.RunID || !runs[0].IncludeSecurityDeposit || runs[0].LTVCap != nil {
		t.Errorf("unexpected newest run %+v", runs[0])
	}
	if runs[1].LTVCap == nil || *runs[1].LTVCap != 80 || runs[1].Dropped != 1 {
		t.Errorf("unexpected oldest run %+v", runs[1])
	}

	var points int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM exposure_points WHERE run_id = ?`, first.RunID).Scan(&points); err != nil {
		t.Fatal(err)
	}
	if points != 2 {
		t.Errorf("expected 2 stored points, got %d", points)
	}
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.RecordRun(&RunSnapshot{RunID: "fixed", Trigger: "cli", LoanCount: 1}); err != nil {
		t.Fatal(err)
	}
	r.Close()

	r, err = NewSQLiteRecorder(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	runs, err := r.Recent(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].RunID != "fixed" {
		t.Errorf("expected persisted run, got %+v", runs)
	}
	if err := r.RecordRun(&RunSnapshot{RunID: "fixed"}); err == nil {
		t.Error("expected duplicate run id to fail")
	}
}

func TestNoopRecorder_AssignsRunID(t *testing.T) {
	snap := &RunSnapshot{}
	if err := NewNoopRecorder().RecordRun(snap); err != nil {
		t.Fatal(err)
	}
	if snap.RunID == "" {
		t.Error("expected run id")
	}
}
