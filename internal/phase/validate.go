// Package phase validates the planning-phase sequence recorded in a query
// profile against the known-phase catalog.
package phase

import (
	"fmt"

	"github.com/jacobarthurs/dprof/internal/document"
)

// LongPhaseMs is the duration above which a single phase earns a
// recommendation (not an issue).
const LongPhaseMs = 30_000

// PlanningRatioMax: planning more than this multiple of execution time earns
// a recommendation.
const PlanningRatioMax = 2

type QueryPhase struct {
	PhaseName  string `json:"phaseName"`
	DurationMs int64  `json:"durationMs"`
}

// Breakdown buckets phases by concern. Buckets overlap: a phase may appear
// in more than one.
type Breakdown struct {
	Planning     []QueryPhase `json:"planning"`
	Execution    []QueryPhase `json:"execution"`
	Optimization []QueryPhase `json:"optimization"`
	Resource     []QueryPhase `json:"resource"`
}

// ValidationResult reports catalog and sequencing problems in the planning
// phases. Issues make the result invalid; recommendations never do.
type ValidationResult struct {
	IsValid             bool         `json:"isValid"`
	TotalPhases         int          `json:"totalPhases"`
	TotalPlanningTimeMs int64        `json:"totalPlanningTimeMs"`
	Phases              []QueryPhase `json:"phases"`
	PhaseBreakdown      Breakdown    `json:"phaseBreakdown"`
	Issues              []string     `json:"issues"`
	Recommendations     []string     `json:"recommendations"`
}

// Validate checks the document's planning-phase list. Returns nil when the
// document records no phases at all.
func Validate(doc document.Document) *ValidationResult {
	rawPhases := doc.List("planPhases")
	if len(rawPhases) == 0 {
		return nil
	}

	result := &ValidationResult{}
	seen := make(map[string]bool)

	for _, raw := range rawPhases {
		p := document.Map(raw)
		qp := QueryPhase{
			PhaseName:  p.Str("phaseName"),
			DurationMs: document.Int(p.Get("durationMillis"), 0),
		}
		result.Phases = append(result.Phases, qp)
		result.TotalPlanningTimeMs += qp.DurationMs
		seen[qp.PhaseName] = true

		if !isKnownPhase(qp.PhaseName) {
			result.Issues = append(result.Issues,
				fmt.Sprintf("unknown planning phase %q", qp.PhaseName))
		}
		if qp.DurationMs < 0 {
			result.Issues = append(result.Issues,
				fmt.Sprintf("phase %q has negative duration %dms", qp.PhaseName, qp.DurationMs))
		}
		if qp.DurationMs > LongPhaseMs {
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("phase %q took %dms; investigate catalog/metadata latency", qp.PhaseName, qp.DurationMs))
		}

		categorize(qp, &result.PhaseBreakdown)
	}
	result.TotalPhases = len(result.Phases)

	for _, essential := range essentialPhases {
		if !seen[essential] {
			result.Issues = append(result.Issues,
				fmt.Sprintf("missing essential phase %q", essential))
		}
	}

	if executionMs := executionTime(doc); executionMs > 0 &&
		result.TotalPlanningTimeMs > PlanningRatioMax*executionMs {
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("planning time (%dms) exceeds twice the execution time (%dms); consider plan caching or reflection cleanup",
				result.TotalPlanningTimeMs, executionMs))
	}

	result.IsValid = len(result.Issues) == 0
	return result
}

func categorize(qp QueryPhase, b *Breakdown) {
	if planningPhases[qp.PhaseName] {
		b.Planning = append(b.Planning, qp)
	}
	if executionPhases[qp.PhaseName] {
		b.Execution = append(b.Execution, qp)
	}
	if optimizationPhases[qp.PhaseName] {
		b.Optimization = append(b.Optimization, qp)
	}
	if resourcePhases[qp.PhaseName] {
		b.Resource = append(b.Resource, qp)
	}
}

// executionTime derives wall-clock execution time from the document's query
// and planning windows.
func executionTime(doc document.Document) int64 {
	total := doc.Int("end") - doc.Int("start")
	planning := doc.Int("planningEnd") - doc.Int("planningStart")
	if total <= 0 {
		return 0
	}
	if planning < 0 {
		planning = 0
	}
	return total - planning
}
