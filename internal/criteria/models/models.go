// Package models holds the criteria document graph. The same types carry a
// draft (client supplied temporary ids) and a stored document (permanent
// ids); only the creation step turns one into the other.
package models

import (
	"time"

	"dossier/pkg/domain"
)

type Requirement struct {
	ID            domain.RequirementID `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description,omitempty"`
	DataType      domain.DataType      `json:"dataType"`
	ExpectedValue *domain.Value        `json:"expectedValue,omitempty"`
	MinValue      *domain.Value        `json:"minValue,omitempty"`
	MaxValue      *domain.Value        `json:"maxValue,omitempty"`
	Period        *RequirementPeriod   `json:"period,omitempty"`
}

// Values lists the declared values in expected, min, max order.
func (r Requirement) Values() []domain.Value {
	var out []domain.Value
	for _, v := range []*domain.Value{r.ExpectedValue, r.MinValue, r.MaxValue} {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

type RequirementPeriod struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type RequirementGroup struct {
	ID           string        `json:"id"`
	Description  string        `json:"description,omitempty"`
	Requirements []Requirement `json:"requirements"`
}

type Criterion struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Description       string                     `json:"description,omitempty"`
	RelatesTo         *domain.CriterionRelatesTo `json:"relatesTo,omitempty"`
	RelatedItem       string                     `json:"relatedItem,omitempty"`
	RequirementGroups []RequirementGroup         `json:"requirementGroups,omitempty"`
}

// Coefficient maps one requirement answer onto a scoring factor.
type Coefficient struct {
	ID          string       `json:"id"`
	Value       domain.Value `json:"value"`
	Coefficient float64      `json:"coefficient"`
}

type Conversion struct {
	ID           string                     `json:"id"`
	RelatesTo    domain.ConversionRelatesTo `json:"relatesTo"`
	RelatedItem  string                     `json:"relatedItem"`
	Rationale    string                     `json:"rationale"`
	Description  string                     `json:"description,omitempty"`
	Coefficients []Coefficient              `json:"coefficients"`
}

// Draft is a criteria document as the client sends it. Items and Lots are
// the tender entities criteria may relate to. Nil Criteria or Conversions
// mean the attribute was absent.
type Draft struct {
	Cpid                 domain.Cpid
	Ocid                 domain.Ocid
	AwardCriteria        domain.AwardCriteria
	AwardCriteriaDetails *domain.AwardCriteriaDetails
	Items                []domain.ItemID
	Lots                 []string
	Criteria             []Criterion
	Conversions          []Conversion
}

// Document is a stored criteria document with permanent ids.
type Document struct {
	Cpid                 domain.Cpid
	Ocid                 domain.Ocid
	AwardCriteria        domain.AwardCriteria
	AwardCriteriaDetails domain.AwardCriteriaDetails
	Criteria             []Criterion
	Conversions          []Conversion
}

// Requirements walks every requirement of the criteria in document order.
func Requirements(criteria []Criterion) []Requirement {
	var out []Requirement
	for _, c := range criteria {
		for _, g := range c.RequirementGroups {
			out = append(out, g.Requirements...)
		}
	}
	return out
}

// Response answers one requirement on behalf of a candidate.
type Response struct {
	ID               string
	Value            domain.Value
	Requirement      domain.RequirementID
	RelatedCandidate domain.CandidateID
}

// ResponsesParams are the inputs of validateRequirementResponses.
type ResponsesParams struct {
	Cpid       domain.Cpid
	Ocid       domain.Ocid
	Candidates []domain.CandidateID
	Responses  []Response
}
