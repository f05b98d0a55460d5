package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacobarthurs/dprof/internal/document"
)

func phaseDoc(phases ...map[string]any) document.Document {
	anyPhases := make([]any, len(phases))
	for i, p := range phases {
		anyPhases[i] = p
	}
	return document.Document{"planPhases": anyPhases}
}

func namedPhase(name string, ms float64) map[string]any {
	return map[string]any{"phaseName": name, "durationMillis": ms}
}

func allEssentials() []map[string]any {
	return []map[string]any{
		namedPhase("Validation", 10),
		namedPhase("Convert To Rel", 20),
		namedPhase("Logical Planning", 30),
		namedPhase("Physical Planning", 40),
	}
}

func TestValidateCompletePhaseList(t *testing.T) {
	result := Validate(phaseDoc(allEssentials()...))
	require.NotNil(t, result)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 4, result.TotalPhases)
	assert.Equal(t, int64(100), result.TotalPlanningTimeMs)
}

func TestValidateNoPhases(t *testing.T) {
	assert.Nil(t, Validate(document.Document{}))
}

func TestValidateMissingEssentialPhases(t *testing.T) {
	result := Validate(phaseDoc(
		namedPhase("Validation", 500),
		namedPhase("Convert To Rel", 500),
	))
	require.NotNil(t, result)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Issues, `missing essential phase "Logical Planning"`)
	assert.Contains(t, result.Issues, `missing essential phase "Physical Planning"`)
}

func TestValidateUnknownPhaseName(t *testing.T) {
	phases := append(allEssentials(), namedPhase("Mystery Phase", 5))
	result := Validate(phaseDoc(phases...))
	require.NotNil(t, result)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Issues, `unknown planning phase "Mystery Phase"`)
}

func TestValidateDynamicPhaseNamesAreKnown(t *testing.T) {
	phases := append(allEssentials(),
		namedPhase("Average Catalog Access for 3 Total Dataset(s)", 5),
		namedPhase("HepPlanner: CompositeFilterPushdown", 5),
		namedPhase("PlannerPhase.eliminate_empty_scans", 5),
	)
	result := Validate(phaseDoc(phases...))
	require.NotNil(t, result)

	assert.True(t, result.IsValid, "dynamic phase names must not be issues: %v", result.Issues)
}

func TestValidateNegativeDurationIsIssue(t *testing.T) {
	phases := append(allEssentials(), namedPhase("Normalization", -7))
	result := Validate(phaseDoc(phases...))
	require.NotNil(t, result)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Issues, `phase "Normalization" has negative duration -7ms`)
}

func TestValidateLongPhaseIsRecommendationOnly(t *testing.T) {
	phases := append(allEssentials(), namedPhase("Normalization", 45000))
	result := Validate(phaseDoc(phases...))
	require.NotNil(t, result)

	assert.True(t, result.IsValid, "long phases are recommendations, not issues")
	require.Len(t, result.Recommendations, 1)
	assert.Contains(t, result.Recommendations[0], "Normalization")
}

func TestValidatePlanningDominatesExecution(t *testing.T) {
	doc := phaseDoc(
		namedPhase("Validation", 3000),
		namedPhase("Convert To Rel", 3000),
		namedPhase("Logical Planning", 2000),
		namedPhase("Physical Planning", 2000),
	)
	// 10s total query, 9s planning window: 1s execution vs 10s phase time.
	doc["start"] = 0.0
	doc["end"] = 10000.0
	doc["planningStart"] = 0.0
	doc["planningEnd"] = 9000.0

	result := Validate(doc)
	require.NotNil(t, result)

	assert.True(t, result.IsValid)
	require.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "exceeds twice the execution time")
}

func TestValidateOverlappingCategories(t *testing.T) {
	result := Validate(phaseDoc(allEssentials()...))
	require.NotNil(t, result)

	planningNames := phaseNames(result.PhaseBreakdown.Planning)
	optimizationNames := phaseNames(result.PhaseBreakdown.Optimization)

	// Logical Planning sits in both buckets.
	assert.Contains(t, planningNames, "Logical Planning")
	assert.Contains(t, optimizationNames, "Logical Planning")
}

func TestValidateResourceBucket(t *testing.T) {
	phases := append(allEssentials(),
		namedPhase("Execution Resources Planned", 5),
		namedPhase("Queue Processing", 5),
	)
	result := Validate(phaseDoc(phases...))
	require.NotNil(t, result)

	assert.ElementsMatch(t,
		[]string{"Execution Resources Planned", "Queue Processing"},
		phaseNames(result.PhaseBreakdown.Resource))
}

func phaseNames(phases []QueryPhase) []string {
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.PhaseName
	}
	return names
}
