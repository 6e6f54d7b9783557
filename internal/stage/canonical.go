package stage

// Canonical stage identifiers. These cover the standard shape of an
// investigation prompt: what to achieve, where to look, how to proceed,
// and how to report.
const (
	StageObjective         = "Objective"
	StageScoping           = "Scoping"
	StagePlanning          = "Planning"
	StageAdaptiveExecution = "AdaptiveExecution"
	StageQualityGates      = "QualityGates"
	StageToolReference     = "ToolReference"
	StageOutput            = "Output"
)

// Canonical returns a fresh taxonomy with the standard stage set. Rank
// order is the order sections appear in the rendered prompt regardless of
// assignment order.
func Canonical() *Taxonomy {
	t := NewTaxonomy()
	t.Define(StageObjective, 0)
	t.Define(StageScoping, 1)
	t.Define(StagePlanning, 2)
	t.Define(StageAdaptiveExecution, 3)
	t.Define(StageQualityGates, 4)
	t.Define(StageToolReference, 5)
	t.Define(StageOutput, 6)
	return t
}
