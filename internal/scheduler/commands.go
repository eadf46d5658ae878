package scheduler

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"CreditExposure/internal/export"
	"CreditExposure/internal/notifier"
)

const helpText = `Available commands:
• /report: exposure report with configured settings
• /deposit: report with the security deposit counted as a buffer
• /compare &lt;cap&gt;: report with a comparison portfolio at the given LTV cap (percent)
• /export: report workbook as an XLSX file
• /history: recent runs`

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	name, _, _ := strings.Cut(fields[0], "@")

	switch name {
	case "/report":
		s.report(Request{Trigger: TriggerCommand})
		return ""
	case "/deposit":
		include := true
		s.report(Request{Trigger: TriggerCommand, IncludeSecurityDeposit: &include})
		return ""
	case "/compare":
		if len(fields) < 2 {
			return "Usage: /compare &lt;cap&gt;, e.g. /compare 75"
		}
		capPct, err := strconv.ParseFloat(strings.TrimSuffix(fields[1], "%"), 64)
		if err != nil || capPct < 0 {
			return fmt.Sprintf("Invalid LTV cap %q", fields[1])
		}
		s.report(Request{Trigger: TriggerCommand, LTVCap: &capPct})
		return ""
	case "/export":
		return s.sendWorkbook()
	case "/history":
		runs, err := s.Recorder.Recent(5)
		if err != nil {
			log.Printf("[ERROR] load history: %v", err)
			return "Run history is unavailable."
		}
		return notifier.FormatHistory(runs)
	default:
		return helpText
	}
}

func (s *Scheduler) sendWorkbook() string {
	out, err := s.RunReport(s.Ctx, Request{Trigger: TriggerCommand, SkipDelivery: true})
	if err != nil {
		log.Printf("[ERROR] export: %v", err)
		return fmt.Sprintf("❌ Export failed: %v", err)
	}
	wb, err := export.Workbook(s.Ctx, out.Result, out.Portfolio)
	if err != nil {
		log.Printf("[ERROR] build workbook: %v", err)
		return fmt.Sprintf("❌ Export failed: %v", err)
	}
	if err := s.Notifier.SendDocument(export.ExposureXLSX, wb); err != nil {
		log.Printf("[ERROR] send workbook: %v", err)
		return "❌ Sending the workbook failed."
	}
	return ""
}
