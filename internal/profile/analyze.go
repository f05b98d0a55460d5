package profile

import (
	"go.uber.org/zap"

	"github.com/jacobarthurs/dprof/internal/analyzer"
	"github.com/jacobarthurs/dprof/internal/document"
	"github.com/jacobarthurs/dprof/internal/phase"
)

// Analyze runs the full analysis over one raw profile document.
//
// Error policy: fail-fast on document parse, fail-soft on field extraction.
// Invalid JSON is the only error this returns; every extraction below the
// parse degrades to defaults and logs a warning through log.
func Analyze(data []byte, log *zap.Logger) (ExtractedProfile, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return ExtractedProfile{}, err
	}
	return AnalyzeDocument(doc, log), nil
}

// AnalyzeDocument is Analyze for an already-parsed document. The document is
// read-only; the engine never mutates it.
func AnalyzeDocument(doc document.Document, log *zap.Logger) ExtractedProfile {
	if log == nil {
		log = zap.NewNop()
	}

	p := newExtractedProfile()

	p.Query = trimLines(doc.Str("query"))
	p.Plan = trimLines(doc.Str("plan"))
	p.SnapshotID = extractSnapshotID(p.Plan)
	p.EngineVersion = doc.Str("dremioVersion")

	extractDatasets(doc, &p, log)
	p.PlanOperatorSummary = extractPlanOperatorSummary(doc)
	extractReflections(doc, &p)
	if options := extractOptions(doc, log); options != nil {
		p.NonDefaultOptions = options
	}

	p.DataScans = ExtractDataScans(doc, p.Plan, log)
	p.PerformanceMetrics = analyzer.ExtractMetrics(doc, log)
	p.PhaseValidation = phase.Validate(doc)

	return p
}
