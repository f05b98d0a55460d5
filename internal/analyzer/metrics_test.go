package analyzer

import (
	"fmt"
	"testing"

	"github.com/jacobarthurs/dprof/internal/document"
)

// --- Helpers ---

func docWithOperators(ops ...map[string]any) document.Document {
	anyOps := make([]any, len(ops))
	for i, op := range ops {
		anyOps[i] = op
	}
	return document.Document{
		"start":         1000.0,
		"end":           6000.0,
		"planningStart": 1000.0,
		"planningEnd":   2000.0,
		"fragmentProfile": []any{
			map[string]any{
				"majorFragmentId": 2.0,
				"minorFragmentProfile": []any{
					map[string]any{
						"minorFragmentId": 0.0,
						"operatorProfile": anyOps,
					},
				},
			},
		},
	}
}

func operator(id int, setupNs, processNs, waitNs float64) map[string]any {
	return map[string]any{
		"operatorId":   float64(id),
		"operatorType": 10.0, // PROJECT
		"setupNanos":   setupNs,
		"processNanos": processNs,
		"waitNanos":    waitNs,
	}
}

func TestExtractMetricsTiming(t *testing.T) {
	doc := document.Document{
		"id":            map[string]any{"part1": "q1"},
		"start":         1000.0,
		"end":           6000.0,
		"planningStart": 1000.0,
		"planningEnd":   2000.0,
		"planPhases": []any{
			map[string]any{"phaseName": "Validation", "durationMillis": 500.0},
			map[string]any{"phaseName": "Convert To Rel", "durationMillis": 500.0},
		},
	}

	m := ExtractMetrics(doc, nil)
	if m == nil {
		t.Fatal("ExtractMetrics() = nil, want metrics")
	}
	if m.TotalQueryTimeMs != 5000 {
		t.Errorf("TotalQueryTimeMs = %d, want 5000", m.TotalQueryTimeMs)
	}
	if m.PlanningTimeMs != 1000 {
		t.Errorf("PlanningTimeMs = %d, want 1000", m.PlanningTimeMs)
	}
	if m.ExecutionTimeMs != 4000 {
		t.Errorf("ExecutionTimeMs = %d, want 4000", m.ExecutionTimeMs)
	}
	if m.QueryInfo.QueryID != "q1" {
		t.Errorf("QueryID = %q, want q1", m.QueryInfo.QueryID)
	}
}

func TestExtractMetricsUnusableTiming(t *testing.T) {
	if m := ExtractMetrics(document.Document{}, nil); m != nil {
		t.Errorf("ExtractMetrics(no timing) = %+v, want nil", m)
	}
	if m := ExtractMetrics(document.Document{"start": 2000.0, "end": 1000.0}, nil); m != nil {
		t.Errorf("ExtractMetrics(end before start) = %+v, want nil", m)
	}
}

func TestOperatorTotalInvariant(t *testing.T) {
	op := operator(1, 3_500_000, 10_900_000, 2_100_000)
	m := ExtractMetrics(docWithOperators(op), nil)
	if m == nil || len(m.TopOperators) != 1 {
		t.Fatalf("expected 1 operator, got %+v", m)
	}

	got := m.TopOperators[0]
	if got.SetupMs != 3 || got.ProcessMs != 10 || got.WaitMs != 2 {
		t.Errorf("ms conversion = %d/%d/%d, want 3/10/2", got.SetupMs, got.ProcessMs, got.WaitMs)
	}
	if got.TotalMs != got.SetupMs+got.ProcessMs+got.WaitMs {
		t.Errorf("TotalMs = %d, want setup+process+wait = %d",
			got.TotalMs, got.SetupMs+got.ProcessMs+got.WaitMs)
	}
	if got.FragmentID != "2-0" {
		t.Errorf("FragmentID = %q, want 2-0", got.FragmentID)
	}
}

func TestSelectivityPresentOnlyWithInput(t *testing.T) {
	withInput := operator(1, 0, 2_000_000, 0)
	withInput["inputProfile"] = []any{
		map[string]any{"records": 1000.0, "size": 4096.0},
		map[string]any{"records": 1000.0, "size": 4096.0},
	}
	withInput["outputRecords"] = 500.0
	noInput := operator(2, 0, 1_000_000, 0)

	m := ExtractMetrics(docWithOperators(withInput, noInput), nil)
	if m == nil {
		t.Fatal("ExtractMetrics() = nil")
	}

	var got, without *OperatorMetric
	for i := range m.TopOperators {
		switch m.TopOperators[i].OperatorID {
		case 1:
			got = &m.TopOperators[i]
		case 2:
			without = &m.TopOperators[i]
		}
	}
	if got == nil || without == nil {
		t.Fatal("missing operators in result")
	}

	if got.InputRecords != 2000 {
		t.Errorf("InputRecords = %d, want sum 2000", got.InputRecords)
	}
	if got.Selectivity == nil || *got.Selectivity != 0.25 {
		t.Errorf("Selectivity = %v, want 0.25", got.Selectivity)
	}
	if got.ThroughputRecordsPerSec == nil || *got.ThroughputRecordsPerSec != 1_000_000 {
		t.Errorf("Throughput = %v, want 1000000", got.ThroughputRecordsPerSec)
	}
	if without.Selectivity != nil {
		t.Errorf("Selectivity without input = %v, want nil", without.Selectivity)
	}
}

func TestTopOperatorsCappedAndSorted(t *testing.T) {
	var ops []map[string]any
	for i := 0; i < 15; i++ {
		ops = append(ops, operator(i, 0, float64(i+1)*1_000_000, 0))
	}

	m := ExtractMetrics(docWithOperators(ops...), nil)
	if m == nil {
		t.Fatal("ExtractMetrics() = nil")
	}

	if len(m.TopOperators) != MaxTopOperators {
		t.Fatalf("len(TopOperators) = %d, want %d", len(m.TopOperators), MaxTopOperators)
	}
	for i := 1; i < len(m.TopOperators); i++ {
		if m.TopOperators[i].TotalMs > m.TopOperators[i-1].TotalMs {
			t.Errorf("TopOperators not sorted descending at %d", i)
		}
	}

	// Aggregate stats cover all 15 operators, not just the kept 10.
	if m.OperatorStats.TotalOperators != 15 {
		t.Errorf("TotalOperators = %d, want 15", m.OperatorStats.TotalOperators)
	}
	if m.OperatorStats.MaxOperatorTimeMs != 15 {
		t.Errorf("MaxOperatorTimeMs = %d, want 15", m.OperatorStats.MaxOperatorTimeMs)
	}
	if m.LongestRunningOperator == nil || m.LongestRunningOperator.TotalMs != 15 {
		t.Errorf("LongestRunningOperator = %+v, want TotalMs 15", m.LongestRunningOperator)
	}
}

func TestPhasesSortedByDuration(t *testing.T) {
	doc := docWithOperators()
	doc["planPhases"] = []any{
		map[string]any{"phaseName": "Validation", "durationMillis": 10.0},
		map[string]any{"phaseName": "Logical Planning", "durationMillis": 300.0},
		map[string]any{"phaseName": "Physical Planning", "durationMillis": 50.0},
	}

	m := ExtractMetrics(doc, nil)
	if m == nil {
		t.Fatal("ExtractMetrics() = nil")
	}

	want := []string{"Logical Planning", "Physical Planning", "Validation"}
	for i, phase := range m.Phases {
		if phase.PhaseName != want[i] {
			t.Errorf("Phases[%d] = %q, want %q", i, phase.PhaseName, want[i])
		}
	}
	if m.LongestRunningPhase == nil || m.LongestRunningPhase.PhaseName != "Logical Planning" {
		t.Errorf("LongestRunningPhase = %+v, want Logical Planning", m.LongestRunningPhase)
	}
}

func TestOperatorTypeName(t *testing.T) {
	if got := OperatorTypeName(4); got != "HASH_JOIN" {
		t.Errorf("OperatorTypeName(4) = %q, want HASH_JOIN", got)
	}
	want := fmt.Sprintf("UNKNOWN_OPERATOR (%d)", 999)
	if got := OperatorTypeName(999); got != want {
		t.Errorf("OperatorTypeName(999) = %q, want %q", got, want)
	}
}

func TestQueryStateName(t *testing.T) {
	if got := QueryStateName(2.0); got != "COMPLETED" {
		t.Errorf("QueryStateName(2) = %q, want COMPLETED", got)
	}
	if got := QueryStateName("FAILED"); got != "FAILED" {
		t.Errorf("QueryStateName(string) = %q, want FAILED", got)
	}
	if got := QueryStateName(nil); got != "" {
		t.Errorf("QueryStateName(nil) = %q, want empty", got)
	}
}
