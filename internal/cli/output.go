package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pmachovec/asciipinyin/internal/i18n"
	"github.com/pmachovec/asciipinyin/pkg/types"
)

// reportOutput is the JSON form of an integrity report.
type reportOutput struct {
	Accepted   bool                  `json:"accepted"`
	Violations types.IntegrityReport `json:"violations"`
}

func newReportOutput(report types.IntegrityReport) reportOutput {
	if report == nil {
		report = types.IntegrityReport{}
	}
	return reportOutput{Accepted: report.Empty(), Violations: report}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return sysError(fmt.Errorf("encode output: %w", err))
	}
	return nil
}

// printRejection writes a non-empty report and returns the error that maps
// to exit code 1.
func (a *app) printRejection(cmd *cobra.Command, report types.IntegrityReport) error {
	if err := a.printReport(cmd, report); err != nil {
		return err
	}
	return userError(errReported)
}

// printReport writes report as JSON or as localized text.
func (a *app) printReport(cmd *cobra.Command, report types.IntegrityReport) error {
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return writeJSON(out, newReportOutput(report))
	}
	if err := i18n.RenderReport(out, a.tag, report); err != nil {
		return sysError(err)
	}
	return nil
}

var pastTense = map[string]string{
	types.JournalCreate: "created",
	types.JournalDelete: "deleted",
}

// printMutation reports a committed create or delete; op is a journal
// operation name.
func (a *app) printMutation(cmd *cobra.Command, op string, record types.ConflictEntity) error {
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return writeJSON(out, struct {
			Operation string               `json:"operation"`
			Record    types.ConflictEntity `json:"record"`
		}{op, record})
	}
	fmt.Fprintf(out, "%s %s\n", pastTense[op], record)
	return nil
}
