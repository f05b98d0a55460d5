package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jacobarthurs/dprof/internal/analyzer"
	"github.com/jacobarthurs/dprof/internal/profile"
	"github.com/jacobarthurs/dprof/internal/retry"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

// RenderProfileText writes the full diagnostic report for one profile.
func RenderProfileText(w io.Writer, p profile.ExtractedProfile) error {
	tw := &textWriter{w: w}

	tw.printf("%s%sProfile Summary%s\n\n", colorBold, colorCyan, colorReset)
	if p.EngineVersion != "" {
		tw.printf("  Engine Version: %s\n", p.EngineVersion)
	}
	if p.SnapshotID != "" {
		tw.printf("  Snapshot:       %s\n", p.SnapshotID)
	}
	tw.printf("  Datasets:       %d physical, %d virtual\n", len(p.PDSPaths), len(p.VDSPaths))
	tw.printf("  Data Scans:     %d\n", len(p.DataScans))
	tw.printf("\n")

	if len(p.PDSPaths) > 0 {
		tw.printf("%s%sPhysical Datasets%s\n\n", colorBold, colorCyan, colorReset)
		for _, path := range p.PDSPaths {
			tw.printf("  %s\n", path)
		}
		tw.printf("\n")
	}
	if len(p.VDSPaths) > 0 {
		tw.printf("%s%sVirtual Datasets%s\n\n", colorBold, colorCyan, colorReset)
		for _, path := range p.VDSPaths {
			tw.printf("  %s\n", path)
		}
		tw.printf("\n")
	}

	if len(p.Reflections.Chosen) > 0 || len(p.Reflections.Considered) > 0 {
		tw.printf("%s%sReflections%s\n\n", colorBold, colorCyan, colorReset)
		for _, r := range p.Reflections.Chosen {
			tw.printf("  %schosen%s     %s\n", colorGreen, colorReset, r)
		}
		for _, r := range p.Reflections.Considered {
			tw.printf("  %sconsidered%s %s\n", colorDim, colorReset, r)
		}
		tw.printf("\n")
	}

	if len(p.DataScans) > 0 {
		tw.printf("%s%sData Scans%s\n\n", colorBold, colorCyan, colorReset)
		for _, scan := range p.DataScans {
			tw.printf("  %s (%s)", scan.TableName, scan.ScanType)
			if scan.RowsScanned > 0 {
				tw.printf("  rows=%d", scan.RowsScanned)
			}
			if scan.DurationMs > 0 {
				tw.printf("  %dms", scan.DurationMs)
			}
			tw.printf("\n")
			if scan.TableFunctionFilter != "" {
				tw.printf("  %s  filter: %s%s\n", colorDim, scan.TableFunctionFilter, colorReset)
			}
		}
		tw.printf("\n")
	}

	if m := p.PerformanceMetrics; m != nil {
		tw.renderMetrics(m)
	}

	if v := p.PhaseValidation; v != nil {
		tw.printf("%s%sPhase Validation%s\n\n", colorBold, colorCyan, colorReset)
		if v.IsValid {
			tw.printf("  %s%sOK%s — %d phases, %dms planning\n",
				colorBold, colorGreen, colorReset, v.TotalPhases, v.TotalPlanningTimeMs)
		} else {
			tw.printf("  %s%sINVALID%s — %d phases, %dms planning\n",
				colorBold, colorRed, colorReset, v.TotalPhases, v.TotalPlanningTimeMs)
		}
		for _, issue := range v.Issues {
			tw.printf("  %sissue%s %s\n", colorRed, colorReset, issue)
		}
		for _, rec := range v.Recommendations {
			tw.printf("  %s→ %s%s\n", colorDim, rec, colorReset)
		}
		tw.printf("\n")
	}

	return tw.err
}

func (tw *textWriter) renderMetrics(m *analyzer.PerformanceMetrics) {
	tw.printf("%s%sTiming%s\n\n", colorBold, colorCyan, colorReset)
	tw.printf("  Total:     %dms\n", m.TotalQueryTimeMs)
	tw.printf("  Planning:  %dms\n", m.PlanningTimeMs)
	tw.printf("  Execution: %dms\n", m.ExecutionTimeMs)
	tw.printf("\n")

	if len(m.TopOperators) > 0 {
		tw.printf("%s%sTop Operators%s\n\n", colorBold, colorCyan, colorReset)
		for _, op := range m.TopOperators {
			tw.printf("  %-28s %8dms  fragment %s", op.OperatorType, op.TotalMs, op.FragmentID)
			if op.InputRecords > 0 {
				tw.printf("  in=%d", op.InputRecords)
			}
			tw.printf("\n")
		}
		tw.printf("\n")
	}

	if len(m.Bottlenecks) == 0 {
		tw.printf("%s%sNo bottlenecks detected.%s\n\n", colorBold, colorGreen, colorReset)
		return
	}

	tw.printf("%s%sBottlenecks (%d)%s\n\n", colorBold, colorCyan, len(m.Bottlenecks), colorReset)
	for i, b := range m.Bottlenecks {
		label, color := severityFormat(b.Severity)
		tw.printf("  %s%-8s%s [%s] %s\n", color, label, colorReset, b.Type, b.Description)
		tw.printf("  %s→ %s%s\n", colorDim, b.Recommendation, colorReset)
		if b.Details != "" {
			tw.printf("  %s  %s%s\n", colorDim, b.Details, colorReset)
		}
		if i < len(m.Bottlenecks)-1 {
			tw.printf("\n")
		}
	}
	tw.printf("\n")
}

func severityFormat(s analyzer.Severity) (string, string) {
	switch s {
	case analyzer.High:
		return "HIGH", colorRed
	case analyzer.Medium:
		return "MEDIUM", colorYellow
	default:
		return "LOW", colorCyan
	}
}

// RenderRetriesText writes the multi-attempt grouping report.
func RenderRetriesText(w io.Writer, result retry.GroupResult) error {
	tw := &textWriter{w: w}

	if len(result.MultiAttemptGroups) == 0 {
		tw.printf("%s%sNo retried queries found%s (%d plain files)\n",
			colorBold, colorGreen, colorReset, len(result.SingleFiles))
		return tw.err
	}

	for _, group := range result.MultiAttemptGroups {
		tw.printf("%s%sQuery %s%s — %d attempts, %s, backoff: %s\n\n",
			colorBold, colorCyan, group.BaseQueryID, colorReset,
			group.TotalAttempts, finalStatusLabel(group.FinalStatus), group.RetryPattern.BackoffType)

		for _, attempt := range group.Attempts {
			tw.printf("  #%d  %-9s", attempt.AttemptNumber, attempt.Status)
			if attempt.Timing.DurationMs > 0 {
				tw.printf("  %dms", attempt.Timing.DurationMs)
			}
			if attempt.ErrorID != "" {
				tw.printf("  error=%s", attempt.ErrorID)
			}
			tw.printf("\n")
		}

		if len(group.RetryPattern.RetryIntervals) > 0 {
			intervals := make([]string, len(group.RetryPattern.RetryIntervals))
			for i, gap := range group.RetryPattern.RetryIntervals {
				intervals[i] = fmt.Sprintf("%.1fs", gap)
			}
			tw.printf("\n  intervals: %s\n", strings.Join(intervals, ", "))
		}
		tw.printf("\n")
	}

	if len(result.SingleFiles) > 0 {
		tw.printf("%s%d file(s) not part of any retry group%s\n",
			colorDim, len(result.SingleFiles), colorReset)
	}

	return tw.err
}

func finalStatusLabel(s retry.FinalStatus) string {
	switch s {
	case retry.FinalSuccess:
		return colorGreen + "succeeded" + colorReset
	case retry.FinalPartial:
		return colorYellow + "partial" + colorReset
	default:
		return colorRed + "failed" + colorReset
	}
}
