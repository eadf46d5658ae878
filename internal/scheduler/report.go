package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"CreditExposure/internal/chart"
	"CreditExposure/internal/export"
	"CreditExposure/internal/exposure"
	"CreditExposure/internal/model"
	"CreditExposure/internal/notifier"
	"CreditExposure/internal/recorder"
)

// Report triggers, stored with every recorded run.
const (
	TriggerCron    = "cron"
	TriggerCommand = "command"
	TriggerStartup = "startup"
	TriggerCLI     = "cli"
)

// Request carries per-run overrides on top of Settings.
type Request struct {
	Trigger                string
	IncludeSecurityDeposit *bool
	LTVCap                 *float64 // forces a comparison portfolio at this cap
	SkipDelivery           bool     // build and record only
}

// Outcome is everything one report run produced.
type Outcome struct {
	RunID     string
	Portfolio model.Portfolio
	Result    *exposure.Result
	Chart     []byte
	Files     []string
}

func (s *Scheduler) options(req Request) (exposure.Options, error) {
	grid, err := model.LinearGrid(s.Settings.GridPoints)
	if err != nil {
		return exposure.Options{}, err
	}
	opts := exposure.Options{
		Grid:                   grid,
		IncludeSecurityDeposit: s.Settings.IncludeSecurityDeposit,
		Workers:                s.Settings.Workers,
	}
	if req.IncludeSecurityDeposit != nil {
		opts.IncludeSecurityDeposit = *req.IncludeSecurityDeposit
	}
	switch {
	case req.LTVCap != nil:
		v := *req.LTVCap
		opts.ComparisonCap = &v
	case s.Settings.Comparison:
		v := s.Settings.LTVCap
		opts.ComparisonCap = &v
	}
	return opts, nil
}

// RunReport collects the portfolio, evaluates it, renders the chart, writes the exports,
// records the run and delivers the report. Invalid loans are reported and nothing is rendered.
func (s *Scheduler) RunReport(ctx context.Context, req Request) (*Outcome, error) {
	opts, err := s.options(req)
	if err != nil {
		return nil, err
	}

	p, err := s.Collector.Collect()
	if err != nil {
		var invalid *model.InvalidLoanError
		if errors.As(err, &invalid) && !req.SkipDelivery {
			s.trySend(notifier.FormatInvalidLoans(invalid.ProjectIDs))
		} else if !req.SkipDelivery {
			s.trySend(fmt.Sprintf("❌ Loading the loan book failed: %v", err))
		}
		return nil, fmt.Errorf("collect: %w", err)
	}

	res, err := exposure.Run(ctx, p, opts)
	if err != nil {
		if !req.SkipDelivery {
			s.trySend(fmt.Sprintf("❌ Exposure run failed: %v", err))
		}
		return nil, fmt.Errorf("exposure: %w", err)
	}
	out := &Outcome{Portfolio: p, Result: res}

	comparisonCount := 0
	if res.Comparison != nil {
		comparisonCount = res.Comparison.Len()
	}
	subtitle := fmt.Sprintf("%d loans | security deposit %s", p.Len(), depositText(opts.IncludeSecurityDeposit))
	if opts.ComparisonCap != nil {
		subtitle += fmt.Sprintf(" | comparison at %.0f%% LTV", *opts.ComparisonCap)
	}
	out.Chart, err = s.Charts.Render(res.Curve, chart.Options{
		Width:    s.Settings.ChartWidth,
		Height:   s.Settings.ChartHeight,
		Subtitle: subtitle,
	})
	if err != nil {
		return nil, err
	}

	if s.Settings.OutputDir != "" {
		out.Files, err = export.WriteFiles(ctx, s.Settings.OutputDir, res, p)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		log.Printf("[INFO] wrote %d files to %s", len(out.Files), s.Settings.OutputDir)
	}

	snap := &recorder.RunSnapshot{
		Trigger:                req.Trigger,
		Source:                 s.Collector.Source.Name(),
		IncludeSecurityDeposit: opts.IncludeSecurityDeposit,
		LTVCap:                 opts.ComparisonCap,
		LoanCount:              p.Len(),
		ComparisonCount:        comparisonCount,
		Dropped:                res.Dropped,
		Rows:                   res.Curve.Rows(),
	}
	if err := s.Recorder.RecordRun(snap); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	out.RunID = snap.RunID

	if req.SkipDelivery {
		return out, nil
	}
	text := notifier.FormatExposureReport(&notifier.Report{
		RunID:                  snap.RunID,
		GeneratedAt:            time.Now(),
		Source:                 snap.Source,
		LoanCount:              p.Len(),
		ComparisonCount:        comparisonCount,
		Dropped:                res.Dropped,
		IncludeSecurityDeposit: opts.IncludeSecurityDeposit,
		LTVCap:                 opts.ComparisonCap,
		Curve:                  res.Curve,
	})
	if err := s.Notifier.SendPhoto(subtitle, out.Chart); err != nil {
		log.Printf("[ERROR] send chart: %v", err)
	}
	s.trySend(text)
	return out, nil
}

func depositText(include bool) string {
	if include {
		return "included"
	}
	return "excluded"
}
