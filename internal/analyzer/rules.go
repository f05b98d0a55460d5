package analyzer

import "fmt"

// Detection thresholds. Fixed configuration, not runtime-tunable; kept as
// named constants so tests and future tuning never touch the rule logic.
const (
	MaxTopOperators = 10

	WaitTimeMinMs = 1
	WaitPctHigh   = 50.0
	WaitPctMedium = 25.0

	SelectivityMax      = 0.01  // below 1% output/input is suspicious
	SelectivityHigh     = 0.001 // below 0.1% is severe
	SelectivityMinInput = 1_000

	MemoryMinMB    = 100.0
	MemoryHighMB   = 1000.0
	MemoryMediumMB = 500.0

	CPUMinInputRecords     = 1_000_000
	ThroughputFlagRecSec   = 100_000.0
	ThroughputHighRecSec   = 10_000.0
	ThroughputMediumRecSec = 50_000.0
)

// A bottleneckRule inspects the full (unsorted) operator list and the
// aggregated metrics, and reports at most one bottleneck: its worst offender.
// Rules are independent of each other and evaluated in a fixed order.
type bottleneckRule func(operators []OperatorMetric, m *PerformanceMetrics) *Bottleneck

var bottleneckRules = []bottleneckRule{
	checkIOWait,
	checkLowSelectivity,
	checkMemoryPressure,
	checkCPUThroughput,
}

// DetectBottlenecks applies every detection rule over the complete operator
// list, in rule order.
func DetectBottlenecks(operators []OperatorMetric, m *PerformanceMetrics) []Bottleneck {
	var bottlenecks []Bottleneck
	for _, rule := range bottleneckRules {
		if b := rule(operators, m); b != nil {
			bottlenecks = append(bottlenecks, *b)
		}
	}
	return bottlenecks
}

// checkIOWait flags the operator that spent the most time waiting on I/O,
// among operators whose wait time dominates their processing time.
func checkIOWait(operators []OperatorMetric, m *PerformanceMetrics) *Bottleneck {
	var worst *OperatorMetric
	for i := range operators {
		op := &operators[i]
		if op.WaitMs <= op.ProcessMs || op.WaitMs <= WaitTimeMinMs {
			continue
		}
		if worst == nil || op.WaitMs > worst.WaitMs {
			worst = op
		}
	}
	if worst == nil {
		return nil
	}

	waitPct := 0.0
	if worst.TotalMs > 0 {
		waitPct = float64(worst.WaitMs) / float64(worst.TotalMs) * 100
	}

	severity := Low
	switch {
	case waitPct >= WaitPctHigh:
		severity = High
	case waitPct >= WaitPctMedium:
		severity = Medium
	}

	return &Bottleneck{
		Type:       BottleneckIO,
		Severity:   severity,
		OperatorID: worst.OperatorID,
		FragmentID: worst.FragmentID,
		Description: fmt.Sprintf("%s spends %.1f%% of its time waiting on I/O",
			worst.OperatorType, waitPct),
		Recommendation: "Check storage throughput and data layout; many small files or remote storage latency inflate wait time",
		Details: fmt.Sprintf("wait=%dms process=%dms total=%dms fragment=%s",
			worst.WaitMs, worst.ProcessMs, worst.TotalMs, worst.FragmentID),
	}
}

// checkLowSelectivity flags the operator discarding the largest share of its
// input, among high-volume operators that keep under 1% of rows.
func checkLowSelectivity(operators []OperatorMetric, m *PerformanceMetrics) *Bottleneck {
	var worst *OperatorMetric
	for i := range operators {
		op := &operators[i]
		if op.Selectivity == nil || *op.Selectivity >= SelectivityMax {
			continue
		}
		if op.InputRecords <= SelectivityMinInput {
			continue
		}
		if worst == nil || *op.Selectivity < *worst.Selectivity {
			worst = op
		}
	}
	if worst == nil {
		return nil
	}

	severity := Medium
	if *worst.Selectivity < SelectivityHigh {
		severity = High
	}

	return &Bottleneck{
		Type:       BottleneckSelectivity,
		Severity:   severity,
		OperatorID: worst.OperatorID,
		FragmentID: worst.FragmentID,
		Description: fmt.Sprintf("%s keeps only %.4f%% of %d input rows",
			worst.OperatorType, *worst.Selectivity*100, worst.InputRecords),
		Recommendation: "Push filters closer to the scan, or partition/sort the data so fewer rows are read in the first place",
		Details: fmt.Sprintf("input=%d output=%d selectivity=%.6f fragment=%s",
			worst.InputRecords, worst.OutputRecords, *worst.Selectivity, worst.FragmentID),
	}
}

// checkMemoryPressure flags the operator with the largest peak memory above
// the reporting floor.
func checkMemoryPressure(operators []OperatorMetric, m *PerformanceMetrics) *Bottleneck {
	var worst *OperatorMetric
	for i := range operators {
		op := &operators[i]
		if op.PeakMemoryMB <= MemoryMinMB {
			continue
		}
		if worst == nil || op.PeakMemoryMB > worst.PeakMemoryMB {
			worst = op
		}
	}
	if worst == nil {
		return nil
	}

	severity := Low
	switch {
	case worst.PeakMemoryMB > MemoryHighMB:
		severity = High
	case worst.PeakMemoryMB > MemoryMediumMB:
		severity = Medium
	}

	return &Bottleneck{
		Type:       BottleneckMemory,
		Severity:   severity,
		OperatorID: worst.OperatorID,
		FragmentID: worst.FragmentID,
		Description: fmt.Sprintf("%s peaked at %.0f MB of memory",
			worst.OperatorType, worst.PeakMemoryMB),
		Recommendation: "Review memory grants and spill configuration; reduce hash/sort key width or pre-aggregate before the wide operator",
		Details: fmt.Sprintf("peakMemoryMB=%.1f input=%d fragment=%s",
			worst.PeakMemoryMB, worst.InputRecords, worst.FragmentID),
	}
}

// checkCPUThroughput flags the highest-volume operator when it processes
// rows slower than the acceptable floor.
func checkCPUThroughput(operators []OperatorMetric, m *PerformanceMetrics) *Bottleneck {
	var worst *OperatorMetric
	for i := range operators {
		op := &operators[i]
		if op.InputRecords <= CPUMinInputRecords {
			continue
		}
		if worst == nil || op.InputRecords > worst.InputRecords {
			worst = op
		}
	}
	if worst == nil || worst.ThroughputRecordsPerSec == nil {
		return nil
	}

	throughput := *worst.ThroughputRecordsPerSec
	if throughput >= ThroughputFlagRecSec {
		return nil
	}

	severity := Low
	switch {
	case throughput < ThroughputHighRecSec:
		severity = High
	case throughput < ThroughputMediumRecSec:
		severity = Medium
	}

	return &Bottleneck{
		Type:       BottleneckCPU,
		Severity:   severity,
		OperatorID: worst.OperatorID,
		FragmentID: worst.FragmentID,
		Description: fmt.Sprintf("%s processes %d rows at only %.0f rows/sec",
			worst.OperatorType, worst.InputRecords, throughput),
		Recommendation: "Simplify per-row expressions, or increase parallelism so the work spreads across more fragments",
		Details: fmt.Sprintf("input=%d processMs=%d throughput=%.0f rec/s fragment=%s",
			worst.InputRecords, worst.ProcessMs, throughput, worst.FragmentID),
	}
}
