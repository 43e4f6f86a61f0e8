package models

// Default age bounds. An age constraint only narrows the audience when both
// bounds were customized away from these defaults at the same time.
const (
	DefaultMinAge = 18
	DefaultMaxAge = 120
)

// DimensionAny is the sentinel accepted for an unconstrained audience dimension
const DimensionAny = "Any"

// Dimension is one demographic targeting axis: either unconstrained (Any) or a
// non-empty set of accepted values.
type Dimension struct {
	Any    bool     `json:"any"`
	Values []string `json:"values,omitempty"`
}

// AnyDimension returns an unconstrained dimension
func AnyDimension() Dimension {
	return Dimension{Any: true}
}

// ConstrainedDimension returns a dimension restricted to the given values
func ConstrainedDimension(values ...string) Dimension {
	return Dimension{Values: values}
}

// Constrained reports whether the dimension narrows the audience
func (d Dimension) Constrained() bool {
	return !d.Any && len(d.Values) > 0
}

// DimensionName identifies a demographic axis of a user's data profile
type DimensionName string

const (
	DimensionEthnicity     DimensionName = "ethnicity"
	DimensionGender        DimensionName = "gender"
	DimensionHomeOwnership DimensionName = "home_ownership"
	DimensionIncome        DimensionName = "income"
	DimensionLocation      DimensionName = "location"
	DimensionPolitics      DimensionName = "politics"
	DimensionRelationship  DimensionName = "relationship"
	DimensionReligion      DimensionName = "religion"
	DimensionSexuality     DimensionName = "sexuality"
)

// DimensionNames lists the demographic axes in their canonical compile order
var DimensionNames = []DimensionName{
	DimensionEthnicity,
	DimensionGender,
	DimensionHomeOwnership,
	DimensionIncome,
	DimensionLocation,
	DimensionPolitics,
	DimensionRelationship,
	DimensionReligion,
	DimensionSexuality,
}

// AudienceSpec is the canonical, validated targeting criteria derived from a
// raw advertisement payload.
type AudienceSpec struct {
	Dimensions map[DimensionName]Dimension `json:"dimensions"`

	MinAge int `json:"min_age"`
	MaxAge int `json:"max_age"`

	// Interests is mandatory and matched by set overlap: any shared interest
	// qualifies a user.
	Interests []string `json:"interests"`

	Channel OutreachChannel `json:"channel"`

	TargetUserCount int `json:"target_user_count"`
}

// Dimension returns the spec's constraint for the given axis, defaulting to Any
func (s *AudienceSpec) Dimension(name DimensionName) Dimension {
	if d, ok := s.Dimensions[name]; ok {
		return d
	}
	return AnyDimension()
}

// AgeConstraintActive reports whether the age range narrows the audience.
// Both bounds must differ from their defaults simultaneously; an asymmetric
// override is treated as inactive.
func (s *AudienceSpec) AgeConstraintActive() bool {
	return s.MinAge != DefaultMinAge && s.MaxAge != DefaultMaxAge
}
