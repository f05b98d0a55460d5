// Package analyzer derives per-operator timing metrics from a query profile
// and classifies performance bottlenecks over them.
package analyzer

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jacobarthurs/dprof/internal/document"
)

const nanosPerMilli = 1_000_000

// ExtractMetrics computes the full timing breakdown for one profile. Returns
// nil when the document carries no usable start/end timing.
func ExtractMetrics(doc document.Document, log *zap.Logger) *PerformanceMetrics {
	if log == nil {
		log = zap.NewNop()
	}

	start := document.Int(doc.Get("start"), -1)
	end := document.Int(doc.Get("end"), -1)
	if start < 0 || end < 0 || end < start {
		log.Warn("profile missing usable query timing; skipping performance metrics",
			zap.Int64("start", start),
			zap.Int64("end", end))
		return nil
	}

	m := &PerformanceMetrics{
		TotalQueryTimeMs: end - start,
		QueryInfo: QueryInfo{
			QueryID: doc.Str("id", "part1"),
			User:    doc.Str("user"),
			State:   QueryStateName(doc.Get("state")),
		},
	}

	planningStart := doc.Int("planningStart")
	planningEnd := doc.Int("planningEnd")
	if planningEnd > planningStart {
		m.PlanningTimeMs = planningEnd - planningStart
	}
	m.ExecutionTimeMs = m.TotalQueryTimeMs - m.PlanningTimeMs

	operators := collectOperators(doc)

	m.TopOperators = topOperators(operators, MaxTopOperators)
	m.OperatorStats = aggregateOperatorStats(operators)
	m.DataVolumeStats = aggregateDataVolume(operators)

	if longest := longestOperator(operators); longest != nil {
		op := *longest
		m.LongestRunningOperator = &op
	}

	m.Phases = PhaseDurations(doc)
	sort.SliceStable(m.Phases, func(i, j int) bool {
		return m.Phases[i].DurationMs > m.Phases[j].DurationMs
	})
	if len(m.Phases) > 0 {
		phase := m.Phases[0]
		m.LongestRunningPhase = &phase
	}

	m.Bottlenecks = DetectBottlenecks(operators, m)

	return m
}

// PhaseDurations reads the per-phase duration list shared with the phase
// validator, in document order.
func PhaseDurations(doc document.Document) []PhaseDuration {
	var phases []PhaseDuration
	for _, raw := range doc.List("planPhases") {
		phase := document.Map(raw)
		phases = append(phases, PhaseDuration{
			PhaseName:  phase.Str("phaseName"),
			DurationMs: phase.Int("durationMillis"),
		})
	}
	return phases
}

// collectOperators walks fragment -> minor fragment -> operator and flattens
// every operator instance with its counters converted to report units.
func collectOperators(doc document.Document) []OperatorMetric {
	var operators []OperatorMetric

	for _, rawFragment := range doc.List("fragmentProfile") {
		fragment := document.Map(rawFragment)
		majorID := fragment.Int("majorFragmentId")

		for _, rawMinor := range fragment.List("minorFragmentProfile") {
			minor := document.Map(rawMinor)
			minorID := minor.Int("minorFragmentId")

			for _, rawOp := range minor.List("operatorProfile") {
				op := document.Map(rawOp)

				metric := OperatorMetric{
					OperatorID:   op.Int("operatorId"),
					OperatorType: OperatorTypeName(op.Int("operatorType")),
					FragmentID:   fmt.Sprintf("%d-%d", majorID, minorID),
					SetupMs:      op.Int("setupNanos") / nanosPerMilli,
					ProcessMs:    op.Int("processNanos") / nanosPerMilli,
					WaitMs:       op.Int("waitNanos") / nanosPerMilli,
					PeakMemoryMB: document.Float(op.Get("peakLocalMemoryAllocated"), 0) / (1024 * 1024),
				}
				metric.TotalMs = metric.SetupMs + metric.ProcessMs + metric.WaitMs

				for _, rawInput := range op.List("inputProfile") {
					input := document.Map(rawInput)
					metric.InputRecords += input.Int("records")
					metric.InputBytes += input.Int("size")
				}
				metric.OutputRecords = op.Int("outputRecords")
				metric.OutputBytes = op.Int("outputBytes")

				if metric.InputRecords > 0 {
					sel := float64(metric.OutputRecords) / float64(metric.InputRecords)
					metric.Selectivity = &sel
					if metric.ProcessMs > 0 {
						throughput := float64(metric.InputRecords) / (float64(metric.ProcessMs) / 1000)
						metric.ThroughputRecordsPerSec = &throughput
					}
				}

				operators = append(operators, metric)
			}
		}
	}

	return operators
}

func topOperators(operators []OperatorMetric, n int) []OperatorMetric {
	sorted := make([]OperatorMetric, len(operators))
	copy(sorted, operators)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalMs > sorted[j].TotalMs
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func aggregateOperatorStats(operators []OperatorMetric) OperatorStats {
	stats := OperatorStats{TotalOperators: len(operators)}
	for _, op := range operators {
		stats.TotalOperatorTimeMs += op.TotalMs
		if op.TotalMs > stats.MaxOperatorTimeMs {
			stats.MaxOperatorTimeMs = op.TotalMs
		}
	}
	if stats.TotalOperators > 0 {
		stats.AvgOperatorTimeMs = float64(stats.TotalOperatorTimeMs) / float64(stats.TotalOperators)
	}
	return stats
}

func aggregateDataVolume(operators []OperatorMetric) DataVolumeStats {
	var stats DataVolumeStats
	for _, op := range operators {
		stats.TotalRecordsProcessed += op.InputRecords
		stats.TotalBytesProcessed += op.InputBytes
		stats.TotalRecordsOutput += op.OutputRecords
		stats.TotalBytesOutput += op.OutputBytes
	}
	return stats
}

func longestOperator(operators []OperatorMetric) *OperatorMetric {
	var longest *OperatorMetric
	for i := range operators {
		if longest == nil || operators[i].TotalMs > longest.TotalMs {
			longest = &operators[i]
		}
	}
	return longest
}
