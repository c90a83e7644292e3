package service

import (
	"fmt"
	"math"
	"strconv"

	"dossier/internal/criteria/models"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
	"dossier/pkg/rules"
)

// Limits bound coefficient values. A conversion's cast is the largest
// discount it can apply: 1 minus its smallest coefficient.
type Limits struct {
	CoefficientMin float64
	CoefficientMax float64
	CastLimit      float64
}

var DefaultLimits = Limits{CoefficientMin: 0.01, CoefficientMax: 2, CastLimit: 0.8}

// Relations criteria and conversions may declare when criteria are created.
var (
	criterionRelations = domain.NewEnumSet(domain.AllCriterionRelatesTo(), func(r domain.CriterionRelatesTo) bool {
		switch r {
		case domain.CriterionToTenderer, domain.CriterionToItem, domain.CriterionToLot:
			return true
		case domain.CriterionToAward:
			return false
		}
		panic(fmt.Sprintf("criteria: unexpected criterion relation %q", string(r)))
	})
	conversionRelations = domain.NewEnumSet(domain.AllConversionRelatesTo(), func(r domain.ConversionRelatesTo) bool {
		switch r {
		case domain.ConversionToRequirement:
			return true
		case domain.ConversionToObservation, domain.ConversionToOption:
			return false
		}
		panic(fmt.Sprintf("criteria: unexpected conversion relation %q", string(r)))
	})
)

// requirementIndex resolves client supplied requirement ids. Built only
// after ids are known to be unique.
type requirementIndex map[domain.RequirementID]models.Requirement

func indexRequirements(criteria []models.Criterion) requirementIndex {
	idx := make(requirementIndex)
	for _, r := range models.Requirements(criteria) {
		idx[r.ID] = r
	}
	return idx
}

// validateDraft runs the stages in order and stops at the first failure.
// Nothing is written before every stage passes.
func validateDraft(d models.Draft, limits Limits) Validation {
	var idx requirementIndex
	return result.Chain(
		func() Validation { return checkStructure(d) },
		func() Validation { return checkUniqueness(d) },
		func() Validation {
			idx = indexRequirements(d.Criteria)
			return checkRelations(d, idx)
		},
		func() Validation { return checkDataTypes(d, idx, limits) },
		func() Validation { return checkEnumerations(d) },
	)
}

func checkStructure(d models.Draft) Validation {
	return result.Chain(
		func() Validation {
			if d.AwardCriteriaDetails == nil && d.AwardCriteria != domain.AwardPriceOnly {
				return result.Invalid[dErrors.Fail](dErrors.AwardCriteriaDetailsRequired(d.AwardCriteria.String()))
			}
			return result.Valid[dErrors.Fail]()
		},
		func() Validation { return rules.NotEmpty("tender.criteria", d.Criteria) },
		func() Validation { return rules.NotEmpty("tender.conversions", d.Conversions) },
		func() Validation {
			switch {
			case d.Criteria != nil && d.Conversions == nil:
				return result.Invalid[dErrors.Fail](dErrors.ConversionsRequired())
			case d.Conversions != nil && d.Criteria == nil:
				return result.Invalid[dErrors.Fail](dErrors.CriteriaRequired())
			}
			return result.Valid[dErrors.Fail]()
		},
		func() Validation { return result.Every(d.Criteria, checkCriterionStructure) },
		func() Validation {
			return result.Every(d.Conversions, func(c models.Conversion) Validation {
				if c.Coefficients == nil {
					return result.Invalid[dErrors.Fail](dErrors.MissingRequiredAttribute("tender.conversions.coefficients"))
				}
				return rules.NotEmpty("tender.conversions.coefficients", c.Coefficients)
			})
		},
	)
}

func checkCriterionStructure(c models.Criterion) Validation {
	return result.Chain(
		func() Validation {
			if c.RelatesTo == nil {
				return result.Valid[dErrors.Fail]()
			}
			switch *c.RelatesTo {
			case domain.CriterionToItem, domain.CriterionToLot:
				if c.RelatedItem == "" {
					return result.Invalid[dErrors.Fail](dErrors.MissingRequiredAttribute("tender.criteria.relatedItem"))
				}
			}
			return result.Valid[dErrors.Fail]()
		},
		func() Validation {
			if c.RequirementGroups == nil {
				return result.Invalid[dErrors.Fail](dErrors.MissingRequiredAttribute("tender.criteria.requirementGroups"))
			}
			return rules.NotEmpty("tender.criteria.requirementGroups", c.RequirementGroups)
		},
		func() Validation {
			return result.Every(c.RequirementGroups, func(g models.RequirementGroup) Validation {
				if g.Requirements == nil {
					return result.Invalid[dErrors.Fail](
						dErrors.MissingRequiredAttribute("tender.criteria.requirementGroups.requirements"))
				}
				return rules.NotEmpty("tender.criteria.requirementGroups.requirements", g.Requirements)
			})
		},
	)
}

func checkUniqueness(d models.Draft) Validation {
	var groups []models.RequirementGroup
	for _, c := range d.Criteria {
		groups = append(groups, c.RequirementGroups...)
	}
	var coefficients []models.Coefficient
	for _, c := range d.Conversions {
		coefficients = append(coefficients, c.Coefficients...)
	}

	return result.Chain(
		func() Validation {
			return rules.NoDuplicates("tender.criteria.id", d.Criteria, func(c models.Criterion) string { return c.ID })
		},
		func() Validation {
			return rules.NoDuplicates("tender.criteria.requirementGroups.id", groups,
				func(g models.RequirementGroup) string { return g.ID })
		},
		func() Validation {
			return rules.NoDuplicates("tender.criteria.requirementGroups.requirements.id", models.Requirements(d.Criteria),
				func(r models.Requirement) domain.RequirementID { return r.ID })
		},
		func() Validation {
			return rules.NoDuplicates("tender.conversions.id", d.Conversions, func(c models.Conversion) string { return c.ID })
		},
		func() Validation {
			return rules.NoDuplicates("tender.conversions.coefficients.id", coefficients,
				func(c models.Coefficient) string { return c.ID })
		},
		func() Validation { return result.Every(d.Conversions, checkCoefficientValues) },
	)
}

func checkCoefficientValues(c models.Conversion) Validation {
	seen := make(map[string]struct{}, len(c.Coefficients))
	for _, coef := range c.Coefficients {
		k := valueKey(coef.Value)
		if _, dup := seen[k]; dup {
			return result.Invalid[dErrors.Fail](dErrors.DuplicatedCoefficientValue(c.ID, coef.Value.String()))
		}
		seen[k] = struct{}{}
	}
	return result.Valid[dErrors.Fail]()
}

// valueKey makes numbers that differ only in notation collide.
func valueKey(v domain.Value) string {
	if v.DataType() == domain.DataTypeNumber {
		f, _ := v.Float()
		return string(v.DataType()) + ":" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	return string(v.DataType()) + ":" + v.String()
}

func checkRelations(d models.Draft, idx requirementIndex) Validation {
	items := make(map[string]struct{}, len(d.Items))
	for _, id := range d.Items {
		items[id.String()] = struct{}{}
	}
	lots := make(map[string]struct{}, len(d.Lots))
	for _, id := range d.Lots {
		lots[id] = struct{}{}
	}

	return result.Chain(
		func() Validation {
			return result.Every(d.Criteria, func(c models.Criterion) Validation {
				if c.RelatesTo == nil {
					return result.Valid[dErrors.Fail]()
				}
				var known map[string]struct{}
				switch *c.RelatesTo {
				case domain.CriterionToItem:
					known = items
				case domain.CriterionToLot:
					known = lots
				default:
					return result.Valid[dErrors.Fail]()
				}
				if _, ok := known[c.RelatedItem]; !ok {
					return result.Invalid[dErrors.Fail](dErrors.RelatedItemNotFound(c.ID, c.RelatedItem))
				}
				return result.Valid[dErrors.Fail]()
			})
		},
		func() Validation {
			if len(d.Conversions) > 0 && len(idx) == 0 {
				return result.Invalid[dErrors.Fail](dErrors.ConversionWithoutGroups(d.Conversions[0].ID))
			}
			return result.Valid[dErrors.Fail]()
		},
		func() Validation {
			return result.Every(d.Conversions, func(c models.Conversion) Validation {
				if c.RelatesTo != domain.ConversionToRequirement {
					return result.Valid[dErrors.Fail]()
				}
				if _, ok := idx[domain.RequirementID(c.RelatedItem)]; !ok {
					return result.Invalid[dErrors.Fail](dErrors.ConversionRelationNotFound(c.ID, c.RelatedItem))
				}
				return result.Valid[dErrors.Fail]()
			})
		},
	)
}

func checkDataTypes(d models.Draft, idx requirementIndex, limits Limits) Validation {
	return result.Chain(
		func() Validation { return result.Every(models.Requirements(d.Criteria), checkRequirement) },
		func() Validation {
			return result.Every(d.Conversions, func(c models.Conversion) Validation {
				return checkConversion(c, idx, limits)
			})
		},
	)
}

func checkRequirement(r models.Requirement) Validation {
	id := r.ID.String()
	return result.Chain(
		func() Validation {
			if (r.MinValue != nil || r.MaxValue != nil) && !r.DataType.IsNumeric() {
				return result.Invalid[dErrors.Fail](dErrors.MinMaxOnNonNumeric(id, r.DataType.String()))
			}
			return result.Valid[dErrors.Fail]()
		},
		func() Validation {
			return result.Every(r.Values(), func(v domain.Value) Validation {
				if v.DataType() != r.DataType {
					return result.Invalid[dErrors.Fail](
						dErrors.RequirementDataTypeMismatch(id, r.DataType.String(), v.DataType().String()))
				}
				return result.Valid[dErrors.Fail]()
			})
		},
		func() Validation {
			if r.MinValue == nil || r.MaxValue == nil {
				return result.Valid[dErrors.Fail]()
			}
			lo, _ := r.MinValue.Float()
			hi, _ := r.MaxValue.Float()
			if lo > hi {
				return result.Invalid[dErrors.Fail](dErrors.MinGreaterThanMax(id))
			}
			return result.Valid[dErrors.Fail]()
		},
		func() Validation {
			if r.Period != nil && !r.Period.StartDate.Before(r.Period.EndDate) {
				return result.Invalid[dErrors.Fail](dErrors.InvalidRequirementPeriod(id))
			}
			return result.Valid[dErrors.Fail]()
		},
	)
}

func checkConversion(c models.Conversion, idx requirementIndex, limits Limits) Validation {
	related, relatesToRequirement := idx[domain.RequirementID(c.RelatedItem)]
	relatesToRequirement = relatesToRequirement && c.RelatesTo == domain.ConversionToRequirement

	return result.Chain(
		func() Validation {
			if !relatesToRequirement {
				return result.Valid[dErrors.Fail]()
			}
			return result.Every(c.Coefficients, func(coef models.Coefficient) Validation {
				if coef.Value.DataType() != related.DataType {
					return result.Invalid[dErrors.Fail](dErrors.CoefficientDataTypeMismatch(
						coef.ID, related.DataType.String(), coef.Value.DataType().String()))
				}
				return result.Valid[dErrors.Fail]()
			})
		},
		func() Validation {
			return result.Every(c.Coefficients, func(coef models.Coefficient) Validation {
				if coef.Coefficient < limits.CoefficientMin || coef.Coefficient > limits.CoefficientMax {
					return result.Invalid[dErrors.Fail](dErrors.CoefficientOutOfRange(coef.ID,
						formatFloat(coef.Coefficient), formatFloat(limits.CoefficientMin), formatFloat(limits.CoefficientMax)))
				}
				return result.Valid[dErrors.Fail]()
			})
		},
		func() Validation {
			lowest := math.Inf(1)
			for _, coef := range c.Coefficients {
				lowest = math.Min(lowest, coef.Coefficient)
			}
			if cast := 1 - lowest; cast > limits.CastLimit {
				return result.Invalid[dErrors.Fail](
					dErrors.CastCoefficientExceeded(c.ID, formatFloat(cast), formatFloat(limits.CastLimit)))
			}
			return result.Valid[dErrors.Fail]()
		},
	)
}

func checkEnumerations(d models.Draft) Validation {
	return result.Chain(
		func() Validation {
			return result.Every(d.Criteria, func(c models.Criterion) Validation {
				if c.RelatesTo == nil {
					return result.Valid[dErrors.Fail]()
				}
				return result.FromResult(criterionRelations.Parse("tender.criteria.relatesTo", c.RelatesTo.String()))
			})
		},
		func() Validation {
			return result.Every(d.Conversions, func(c models.Conversion) Validation {
				return result.FromResult(conversionRelations.Parse("tender.conversions.relatesTo", c.RelatesTo.String()))
			})
		},
	)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
