package phase

import "strings"

// knownPhases is the catalog of planner phase names the engine is known to
// emit. Names outside the catalog (and outside the dynamic patterns below)
// are reported as validation issues.
var knownPhases = map[string]bool{
	"Validation":                          true,
	"Convert To Rel":                      true,
	"Convert Scan":                        true,
	"Special Pushdowns":                   true,
	"Find Materializations":               true,
	"Normalization":                       true,
	"Substitution":                        true,
	"Plan Normalized":                     true,
	"Plan Cache Used":                     true,
	"Logical Planning":                    true,
	"Physical Planning":                   true,
	"Final Physical Transformation":       true,
	"Permission Check":                    true,
	"Reduce Expressions":                  true,
	"Transitive Predicate Pushdown":       true,
	"Entity Expansion":                    true,
	"Metadata Retrieval":                  true,
	"Catalog Access":                      true,
	"Refresh Decision":                    true,
	"Queue Processing":                    true,
	"Execution Plan: Executor Selection":  true,
	"Execution Plan: Fragment Assignment": true,
	"Execution Plan: Plan Generation":     true,
	"Execution Resources Planned":         true,
	"Execution Resources Allocated":       true,
	"Fragment Start RPCs":                 true,
	"Fragment Activate RPCs":              true,
	"Screen Completion RPC":               true,
}

// essentialPhases must all be present for a plan to validate.
var essentialPhases = []string{
	"Validation",
	"Convert To Rel",
	"Logical Planning",
	"Physical Planning",
}

// Category membership is non-exclusive: a phase can sit in several buckets.
var (
	planningPhases = map[string]bool{
		"Validation":                    true,
		"Convert To Rel":                true,
		"Convert Scan":                  true,
		"Normalization":                 true,
		"Substitution":                  true,
		"Plan Normalized":               true,
		"Logical Planning":              true,
		"Physical Planning":             true,
		"Special Pushdowns":             true,
		"Reduce Expressions":            true,
		"Transitive Predicate Pushdown": true,
		"Final Physical Transformation": true,
	}
	executionPhases = map[string]bool{
		"Execution Plan: Executor Selection":  true,
		"Execution Plan: Fragment Assignment": true,
		"Execution Plan: Plan Generation":     true,
		"Fragment Start RPCs":                 true,
		"Fragment Activate RPCs":              true,
		"Screen Completion RPC":               true,
	}
	optimizationPhases = map[string]bool{
		"Logical Planning":              true,
		"Physical Planning":             true,
		"Find Materializations":         true,
		"Substitution":                  true,
		"Special Pushdowns":             true,
		"Reduce Expressions":            true,
		"Transitive Predicate Pushdown": true,
	}
	resourcePhases = map[string]bool{
		"Execution Resources Planned":   true,
		"Execution Resources Allocated": true,
		"Queue Processing":              true,
	}
)

// isKnownPhase accepts catalog names plus the engine's dynamically generated
// phase names.
func isKnownPhase(name string) bool {
	if knownPhases[name] {
		return true
	}
	if strings.HasPrefix(name, "Average Catalog Access for") {
		return true
	}
	return strings.Contains(name, "CompositeFilterPushdown") ||
		strings.Contains(name, "eliminate_empty_scans")
}
