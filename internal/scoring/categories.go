package scoring

// GroupFeature is one feature key with its weight inside a parameter
// group.
type GroupFeature struct {
	Key    string  `yaml:"key" json:"key"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// ParameterGroup is an ordered set of related features inside a
// category. Weight is the group's share of the category score.
type ParameterGroup struct {
	Name     string         `yaml:"name" json:"name"`
	Weight   float64        `yaml:"weight" json:"weight"`
	Features []GroupFeature `yaml:"features" json:"features"`
}

// CategorySpec owns the parameter groups of one scoring category.
type CategorySpec struct {
	ID     Category         `yaml:"id" json:"id"`
	Groups []ParameterGroup `yaml:"groups" json:"groups"`
}

// neutralCategoryScore is returned when a category has no data at
// all. 0.5 keeps a data-sparse applicant in the middle of the range
// instead of double-penalizing absence.
const neutralCategoryScore = 0.5

// AggregateCategory computes one category score from normalized
// features. Features absent from the input are excluded from their
// group mean; a group with no present features is excluded from the
// category mean; a category with no data at all reports the neutral
// default and hasData=false.
func AggregateCategory(normalized map[string]float64, spec CategorySpec) (score float64, hasData bool) {
	var weightedSum, weightTotal float64
	for _, group := range spec.Groups {
		gScore, ok := groupScore(normalized, group)
		if !ok {
			continue
		}
		weightedSum += group.Weight * gScore
		weightTotal += group.Weight
	}
	if weightTotal == 0 {
		return neutralCategoryScore, false
	}
	return weightedSum / weightTotal, true
}

func groupScore(normalized map[string]float64, group ParameterGroup) (float64, bool) {
	var weightedSum, weightTotal float64
	for _, f := range group.Features {
		v, ok := normalized[f.Key]
		if !ok {
			continue
		}
		weightedSum += f.Weight * v
		weightTotal += f.Weight
	}
	if weightTotal == 0 {
		return 0, false
	}
	return weightedSum / weightTotal, true
}

// AggregateAll scores every category of a domain. Returns the scores
// and the count of categories that had contributing data.
func AggregateAll(normalized map[string]float64, specs []CategorySpec) (map[Category]float64, int) {
	scores := make(map[Category]float64, len(specs))
	withData := 0
	for _, spec := range specs {
		s, ok := AggregateCategory(normalized, spec)
		scores[spec.ID] = s
		if ok {
			withData++
		}
	}
	return scores, withData
}
