package businessflow

import (
	"github.com/amirphl/Susanoo/models"
)

// CompileAudienceClauses maps a canonical AudienceSpec to the ordered filter
// clause list the store evaluates as a logical AND. Pure function, no I/O.
//
// Ordering contract: the interests overlap clause is always first (it is the
// only clause guaranteed present besides channel eligibility), demographic
// membership clauses follow in canonical dimension order, the age pair comes
// after them when active, and the channel-eligibility clause is appended last.
func CompileAudienceClauses(spec *models.AudienceSpec) []models.Clause {
	clauses := make([]models.Clause, 0, len(models.DimensionNames)+4)

	clauses = append(clauses, models.OverlapsClause("interests", spec.Interests))

	for _, name := range models.DimensionNames {
		dim := spec.Dimension(name)
		if !dim.Constrained() {
			continue
		}
		clauses = append(clauses, models.InClause(models.DimensionColumn(name), dim.Values))
	}

	if spec.AgeConstraintActive() {
		clauses = append(clauses,
			models.GTEClause("age", spec.MinAge),
			models.LTEClause("age", spec.MaxAge),
		)
	}

	if col := spec.Channel.DisabledColumn(); col != "" {
		clauses = append(clauses, models.NotDisabledClause(col))
	}

	return clauses
}
