package businessflow

import (
	"encoding/json"
	"fmt"

	"github.com/amirphl/Susanoo/models"
)

// ParseAudienceSpec validates and normalizes the raw targeting portion of an
// advertisement spec into a canonical AudienceSpec. It is pure: no I/O, no
// side effects, deterministic for a given input.
//
// Legacy payloads are tolerated in two ways: a dimension may be a bare scalar
// instead of a one-element collection, and the outreach channel may live inside
// target_audience or at the top level of the spec.
func ParseAudienceSpec(spec *models.AdvertisementSpec) (*models.AudienceSpec, error) {
	if spec == nil {
		return nil, invalidSpec(ErrAdvertisementEmpty)
	}
	if len(spec.TargetAudience) == 0 {
		return nil, invalidSpec(ErrTargetAudienceRequired)
	}
	if len(spec.Categories) == 0 {
		return nil, invalidSpec(ErrCategoriesRequired)
	}
	if spec.TargetUserCount == nil {
		return nil, invalidSpec(ErrTargetUserCountRequired)
	}
	if *spec.TargetUserCount < 0 {
		return nil, invalidSpec(ErrTargetUserCountNegative)
	}

	audience := spec.TargetAudience

	out := &models.AudienceSpec{
		Dimensions:      make(map[models.DimensionName]models.Dimension, len(models.DimensionNames)),
		MinAge:          models.DefaultMinAge,
		MaxAge:          models.DefaultMaxAge,
		Interests:       append([]string(nil), spec.Categories...),
		TargetUserCount: *spec.TargetUserCount,
	}

	for _, name := range models.DimensionNames {
		raw, ok := audience[string(name)]
		if !ok {
			out.Dimensions[name] = models.AnyDimension()
			continue
		}
		dim, err := parseDimension(raw)
		if err != nil {
			return nil, invalidSpec(fmt.Errorf("%s: %w", name, err))
		}
		out.Dimensions[name] = dim
	}

	minAge, err := parseAgeBound(audience["min_age"], models.DefaultMinAge)
	if err != nil {
		return nil, invalidSpec(fmt.Errorf("min_age: %w", err))
	}
	maxAge, err := parseAgeBound(audience["max_age"], models.DefaultMaxAge)
	if err != nil {
		return nil, invalidSpec(fmt.Errorf("max_age: %w", err))
	}
	out.MinAge = minAge
	out.MaxAge = maxAge

	channel, err := parseChannel(audience, spec.Outreach)
	if err != nil {
		return nil, invalidSpec(err)
	}
	out.Channel = channel

	return out, nil
}

// parseDimension normalizes one demographic axis. A bare "Any" string, or a
// collection whose first element is "Any", means unconstrained. A scalar
// string becomes a one-element set. An empty collection is rejected.
func parseDimension(raw any) (models.Dimension, error) {
	switch v := raw.(type) {
	case string:
		if v == models.DimensionAny {
			return models.AnyDimension(), nil
		}
		return models.ConstrainedDimension(v), nil
	case []string:
		if len(v) == 0 {
			return models.Dimension{}, ErrDimensionEmpty
		}
		if v[0] == models.DimensionAny {
			return models.AnyDimension(), nil
		}
		return models.ConstrainedDimension(v...), nil
	case []any:
		if len(v) == 0 {
			return models.Dimension{}, ErrDimensionEmpty
		}
		values := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return models.Dimension{}, ErrDimensionMalformed
			}
			values = append(values, s)
		}
		if values[0] == models.DimensionAny {
			return models.AnyDimension(), nil
		}
		return models.ConstrainedDimension(values...), nil
	default:
		return models.Dimension{}, ErrDimensionMalformed
	}
}

// parseAgeBound coerces the JSON number forms an age bound arrives in
func parseAgeBound(raw any, fallback int) (int, error) {
	if raw == nil {
		return fallback, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, ErrAgeBoundMalformed
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, ErrAgeBoundMalformed
		}
		return int(n), nil
	default:
		return 0, ErrAgeBoundMalformed
	}
}

// parseChannel reads the outreach channel from the audience map, falling back
// to the advertisement's top-level outreach field. Unrecognized channel names
// are preserved: the dispatcher treats them as no-op with a zero count.
func parseChannel(audience map[string]any, topLevel string) (models.OutreachChannel, error) {
	if raw, ok := audience["outreach"]; ok {
		s, ok := raw.(string)
		if !ok || s == "" {
			return "", ErrOutreachRequired
		}
		return models.OutreachChannel(s), nil
	}
	if topLevel == "" {
		return "", ErrOutreachRequired
	}
	return models.OutreachChannel(topLevel), nil
}
