package handler

import (
	"time"

	"dossier/internal/command"
	"dossier/internal/criteria/models"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
	"dossier/pkg/rules"
)

type idRef struct {
	ID *string `json:"id"`
}

type periodDTO struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

type requirementDTO struct {
	ID            *string       `json:"id"`
	Title         *string       `json:"title"`
	Description   *string       `json:"description"`
	DataType      *string       `json:"dataType"`
	ExpectedValue *domain.Value `json:"expectedValue"`
	MinValue      *domain.Value `json:"minValue"`
	MaxValue      *domain.Value `json:"maxValue"`
	Period        *periodDTO    `json:"period"`
}

type groupDTO struct {
	ID           *string          `json:"id"`
	Description  *string          `json:"description"`
	Requirements []requirementDTO `json:"requirements"`
}

type criterionDTO struct {
	ID                *string    `json:"id"`
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	RelatesTo         *string    `json:"relatesTo"`
	RelatedItem       *string    `json:"relatedItem"`
	RequirementGroups []groupDTO `json:"requirementGroups"`
}

type coefficientDTO struct {
	ID          *string       `json:"id"`
	Value       *domain.Value `json:"value"`
	Coefficient *float64      `json:"coefficient"`
}

type conversionDTO struct {
	ID           *string          `json:"id"`
	RelatesTo    *string          `json:"relatesTo"`
	RelatedItem  *string          `json:"relatedItem"`
	Rationale    *string          `json:"rationale"`
	Description  *string          `json:"description"`
	Coefficients []coefficientDTO `json:"coefficients"`
}

type tenderDTO struct {
	AwardCriteria        *string         `json:"awardCriteria"`
	AwardCriteriaDetails *string         `json:"awardCriteriaDetails"`
	Items                []idRef         `json:"items"`
	Lots                 []idRef         `json:"lots"`
	Criteria             []criterionDTO  `json:"criteria"`
	Conversions          []conversionDTO `json:"conversions"`
}

func (t *tenderDTO) isEmpty() bool {
	return t.AwardCriteria == nil && t.AwardCriteriaDetails == nil &&
		t.Items == nil && t.Lots == nil && t.Criteria == nil && t.Conversions == nil
}

// criteriaRequest serves both createCriteria and validateCriteria.
type criteriaRequest struct {
	Cpid   *string    `json:"cpid"`
	Ocid   *string    `json:"ocid"`
	Tender *tenderDTO `json:"tender"`
}

type getRequest struct {
	Cpid *string `json:"cpid"`
}

type responseDTO struct {
	ID               *string       `json:"id"`
	Value            *domain.Value `json:"value"`
	Requirement      *idRef        `json:"requirement"`
	RelatedCandidate *idRef        `json:"relatedCandidate"`
}

type responsesRequest struct {
	Cpid                 *string       `json:"cpid"`
	Ocid                 *string       `json:"ocid"`
	Candidates           []idRef       `json:"candidates"`
	RequirementResponses []responseDTO `json:"requirementResponses"`
}

type documentResponse struct {
	Cpid                 string              `json:"cpid"`
	Ocid                 string              `json:"ocid"`
	AwardCriteria        string              `json:"awardCriteria"`
	AwardCriteriaDetails string              `json:"awardCriteriaDetails"`
	Criteria             []models.Criterion  `json:"criteria,omitempty"`
	Conversions          []models.Conversion `json:"conversions,omitempty"`
}

func toDocumentResponse(doc models.Document) documentResponse {
	return documentResponse{
		Cpid:                 doc.Cpid.String(),
		Ocid:                 doc.Ocid.String(),
		AwardCriteria:        doc.AwardCriteria.String(),
		AwardCriteriaDetails: doc.AwardCriteriaDetails.String(),
		Criteria:             doc.Criteria,
		Conversions:          doc.Conversions,
	}
}

func parseCpid(raw string) result.Result[domain.Cpid, dErrors.Fail] { return domain.ParseCpid(raw) }

func text(attribute string) func(string) result.Result[string, dErrors.Fail] {
	return func(raw string) result.Result[string, dErrors.Fail] {
		if raw == "" {
			return result.Failure[string, dErrors.Fail](dErrors.EmptyString(attribute))
		}
		return result.Success[string, dErrors.Fail](raw)
	}
}

func enum[T ~string](attribute string, all []T) func(string) result.Result[T, dErrors.Fail] {
	set := domain.FullEnumSet(all)
	return func(raw string) result.Result[T, dErrors.Fail] {
		return set.Parse(attribute, raw)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r criteriaRequest) toParams() result.Result[models.Draft, dErrors.Fail] {
	cpid, fail, ok := command.Required("cpid", r.Cpid, parseCpid).Unwrap()
	if !ok {
		return result.Failure[models.Draft](fail)
	}
	ocid, fail, ok := command.Required("ocid", r.Ocid, domain.ParseOcidOf(cpid)).Unwrap()
	if !ok {
		return result.Failure[models.Draft](fail)
	}
	if r.Tender == nil {
		return result.Failure[models.Draft, dErrors.Fail](dErrors.MissingRequiredAttribute("tender"))
	}
	if r.Tender.isEmpty() {
		return result.Failure[models.Draft, dErrors.Fail](dErrors.EmptyObject("tender"))
	}
	t := r.Tender

	award, fail, ok := command.Required("tender.awardCriteria", t.AwardCriteria,
		enum("tender.awardCriteria", domain.AllAwardCriteria())).Unwrap()
	if !ok {
		return result.Failure[models.Draft](fail)
	}
	details, fail, ok := command.Optional(t.AwardCriteriaDetails,
		enum("tender.awardCriteriaDetails", domain.AllAwardCriteriaDetails())).Unwrap()
	if !ok {
		return result.Failure[models.Draft](fail)
	}
	items, fail, ok := result.Traverse(t.Items, func(ref idRef) result.Result[domain.ItemID, dErrors.Fail] {
		return command.Required("tender.items.id", ref.ID, func(raw string) result.Result[domain.ItemID, dErrors.Fail] {
			return domain.ParseItemID("tender.items.id", raw)
		})
	}).Unwrap()
	if !ok {
		return result.Failure[models.Draft](fail)
	}
	lots, fail, ok := result.Traverse(t.Lots, func(ref idRef) result.Result[string, dErrors.Fail] {
		return command.Required("tender.lots.id", ref.ID, text("tender.lots.id"))
	}).Unwrap()
	if !ok {
		return result.Failure[models.Draft](fail)
	}
	criteria, fail, ok := result.Traverse(t.Criteria, criterionDTO.toModel).Unwrap()
	if !ok {
		return result.Failure[models.Draft](fail)
	}
	conversions, fail, ok := result.Traverse(t.Conversions, conversionDTO.toModel).Unwrap()
	if !ok {
		return result.Failure[models.Draft](fail)
	}

	return result.Success[models.Draft, dErrors.Fail](models.Draft{
		Cpid:                 cpid,
		Ocid:                 ocid,
		AwardCriteria:        award,
		AwardCriteriaDetails: details,
		Items:                items,
		Lots:                 lots,
		Criteria:             criteria,
		Conversions:          conversions,
	})
}

func (c criterionDTO) toModel() result.Result[models.Criterion, dErrors.Fail] {
	id, fail, ok := command.Required("tender.criteria.id", c.ID, text("tender.criteria.id")).Unwrap()
	if !ok {
		return result.Failure[models.Criterion](fail)
	}
	title, fail, ok := command.Required("tender.criteria.title", c.Title, text("tender.criteria.title")).Unwrap()
	if !ok {
		return result.Failure[models.Criterion](fail)
	}
	relatesTo, fail, ok := command.Optional(c.RelatesTo,
		enum("tender.criteria.relatesTo", domain.AllCriterionRelatesTo())).Unwrap()
	if !ok {
		return result.Failure[models.Criterion](fail)
	}
	groups, fail, ok := result.Traverse(c.RequirementGroups, groupDTO.toModel).Unwrap()
	if !ok {
		return result.Failure[models.Criterion](fail)
	}
	return result.Success[models.Criterion, dErrors.Fail](models.Criterion{
		ID:                id,
		Title:             title,
		Description:       deref(c.Description),
		RelatesTo:         relatesTo,
		RelatedItem:       deref(c.RelatedItem),
		RequirementGroups: groups,
	})
}

func (g groupDTO) toModel() result.Result[models.RequirementGroup, dErrors.Fail] {
	id, fail, ok := command.Required("tender.criteria.requirementGroups.id", g.ID,
		text("tender.criteria.requirementGroups.id")).Unwrap()
	if !ok {
		return result.Failure[models.RequirementGroup](fail)
	}
	requirements, fail, ok := result.Traverse(g.Requirements, requirementDTO.toModel).Unwrap()
	if !ok {
		return result.Failure[models.RequirementGroup](fail)
	}
	return result.Success[models.RequirementGroup, dErrors.Fail](models.RequirementGroup{
		ID: id, Description: deref(g.Description), Requirements: requirements,
	})
}

func (r requirementDTO) toModel() result.Result[models.Requirement, dErrors.Fail] {
	const prefix = "tender.criteria.requirementGroups.requirements."
	id, fail, ok := command.Required(prefix+"id", r.ID, func(raw string) result.Result[domain.RequirementID, dErrors.Fail] {
		return domain.ParseRequirementID(prefix+"id", raw)
	}).Unwrap()
	if !ok {
		return result.Failure[models.Requirement](fail)
	}
	title, fail, ok := command.Required(prefix+"title", r.Title, text(prefix+"title")).Unwrap()
	if !ok {
		return result.Failure[models.Requirement](fail)
	}
	dataType, fail, ok := command.Required(prefix+"dataType", r.DataType, func(raw string) result.Result[domain.DataType, dErrors.Fail] {
		return domain.ParseDataType(prefix+"dataType", raw)
	}).Unwrap()
	if !ok {
		return result.Failure[models.Requirement](fail)
	}
	period, fail, ok := r.Period.toModel(prefix + "period").Unwrap()
	if !ok {
		return result.Failure[models.Requirement](fail)
	}
	return result.Success[models.Requirement, dErrors.Fail](models.Requirement{
		ID:            id,
		Title:         title,
		Description:   deref(r.Description),
		DataType:      dataType,
		ExpectedValue: present(r.ExpectedValue),
		MinValue:      present(r.MinValue),
		MaxValue:      present(r.MaxValue),
		Period:        period,
	})
}

// present treats an explicit JSON null like an absent value.
func present(v *domain.Value) *domain.Value {
	if v == nil || v.IsZero() {
		return nil
	}
	return v
}

func (p *periodDTO) toModel(attribute string) result.Result[*models.RequirementPeriod, dErrors.Fail] {
	if p == nil {
		return result.Success[*models.RequirementPeriod, dErrors.Fail](nil)
	}
	date := func(attr string) func(string) result.Result[time.Time, dErrors.Fail] {
		return func(raw string) result.Result[time.Time, dErrors.Fail] { return domain.ParseDate(attr, raw) }
	}
	start, fail, ok := command.Required(attribute+".startDate", p.StartDate, date(attribute+".startDate")).Unwrap()
	if !ok {
		return result.Failure[*models.RequirementPeriod](fail)
	}
	end, fail, ok := command.Required(attribute+".endDate", p.EndDate, date(attribute+".endDate")).Unwrap()
	if !ok {
		return result.Failure[*models.RequirementPeriod](fail)
	}
	return result.Success[*models.RequirementPeriod, dErrors.Fail](&models.RequirementPeriod{StartDate: start, EndDate: end})
}

func (c conversionDTO) toModel() result.Result[models.Conversion, dErrors.Fail] {
	id, fail, ok := command.Required("tender.conversions.id", c.ID, text("tender.conversions.id")).Unwrap()
	if !ok {
		return result.Failure[models.Conversion](fail)
	}
	relatesTo, fail, ok := command.Required("tender.conversions.relatesTo", c.RelatesTo,
		enum("tender.conversions.relatesTo", domain.AllConversionRelatesTo())).Unwrap()
	if !ok {
		return result.Failure[models.Conversion](fail)
	}
	relatedItem, fail, ok := command.Required("tender.conversions.relatedItem", c.RelatedItem,
		text("tender.conversions.relatedItem")).Unwrap()
	if !ok {
		return result.Failure[models.Conversion](fail)
	}
	rationale, fail, ok := command.Required("tender.conversions.rationale", c.Rationale,
		text("tender.conversions.rationale")).Unwrap()
	if !ok {
		return result.Failure[models.Conversion](fail)
	}
	coefficients, fail, ok := result.Traverse(c.Coefficients, coefficientDTO.toModel).Unwrap()
	if !ok {
		return result.Failure[models.Conversion](fail)
	}
	return result.Success[models.Conversion, dErrors.Fail](models.Conversion{
		ID:           id,
		RelatesTo:    relatesTo,
		RelatedItem:  relatedItem,
		Rationale:    rationale,
		Description:  deref(c.Description),
		Coefficients: coefficients,
	})
}

func (c coefficientDTO) toModel() result.Result[models.Coefficient, dErrors.Fail] {
	const prefix = "tender.conversions.coefficients."
	id, fail, ok := command.Required(prefix+"id", c.ID, text(prefix+"id")).Unwrap()
	if !ok {
		return result.Failure[models.Coefficient](fail)
	}
	if present(c.Value) == nil {
		return result.Failure[models.Coefficient, dErrors.Fail](dErrors.MissingRequiredAttribute(prefix + "value"))
	}
	if c.Coefficient == nil {
		return result.Failure[models.Coefficient, dErrors.Fail](dErrors.MissingRequiredAttribute(prefix + "coefficient"))
	}
	return result.Success[models.Coefficient, dErrors.Fail](models.Coefficient{
		ID: id, Value: *c.Value, Coefficient: *c.Coefficient,
	})
}

func (r getRequest) toParams() result.Result[domain.Cpid, dErrors.Fail] {
	return command.Required("cpid", r.Cpid, parseCpid)
}

func (r responsesRequest) toParams() result.Result[models.ResponsesParams, dErrors.Fail] {
	cpid, fail, ok := command.Required("cpid", r.Cpid, parseCpid).Unwrap()
	if !ok {
		return result.Failure[models.ResponsesParams](fail)
	}
	ocid, fail, ok := command.Required("ocid", r.Ocid, domain.ParseOcidOf(cpid)).Unwrap()
	if !ok {
		return result.Failure[models.ResponsesParams](fail)
	}
	if r.Candidates == nil {
		return result.Failure[models.ResponsesParams, dErrors.Fail](dErrors.MissingRequiredAttribute("candidates"))
	}
	if fail, ok := rules.NotEmpty("candidates", r.Candidates).Unwrap(); !ok {
		return result.Failure[models.ResponsesParams](fail)
	}
	candidates, fail, ok := result.Traverse(r.Candidates, func(ref idRef) result.Result[domain.CandidateID, dErrors.Fail] {
		return command.Required("candidates.id", ref.ID, func(raw string) result.Result[domain.CandidateID, dErrors.Fail] {
			return domain.ParseCandidateID("candidates.id", raw)
		})
	}).Unwrap()
	if !ok {
		return result.Failure[models.ResponsesParams](fail)
	}
	if fail, ok := rules.NoDuplicatesOf("candidates.id", candidates).Unwrap(); !ok {
		return result.Failure[models.ResponsesParams](fail)
	}
	if fail, ok := rules.NotEmpty("requirementResponses", r.RequirementResponses).Unwrap(); !ok {
		return result.Failure[models.ResponsesParams](fail)
	}
	responses, fail, ok := result.Traverse(r.RequirementResponses, responseDTO.toModel).Unwrap()
	if !ok {
		return result.Failure[models.ResponsesParams](fail)
	}
	return result.Success[models.ResponsesParams, dErrors.Fail](models.ResponsesParams{
		Cpid: cpid, Ocid: ocid, Candidates: candidates, Responses: responses,
	})
}

func (r responseDTO) toModel() result.Result[models.Response, dErrors.Fail] {
	id, fail, ok := command.Required("requirementResponses.id", r.ID, text("requirementResponses.id")).Unwrap()
	if !ok {
		return result.Failure[models.Response](fail)
	}
	if present(r.Value) == nil {
		return result.Failure[models.Response, dErrors.Fail](dErrors.MissingRequiredAttribute("requirementResponses.value"))
	}
	requirement, fail, ok := requiredRef("requirementResponses.requirement", r.Requirement).Unwrap()
	if !ok {
		return result.Failure[models.Response](fail)
	}
	candidate, fail, ok := requiredRef("requirementResponses.relatedCandidate", r.RelatedCandidate).Unwrap()
	if !ok {
		return result.Failure[models.Response](fail)
	}
	return result.Success[models.Response, dErrors.Fail](models.Response{
		ID:               id,
		Value:            *r.Value,
		Requirement:      domain.RequirementID(requirement),
		RelatedCandidate: domain.CandidateID(candidate),
	})
}

func requiredRef(attribute string, ref *idRef) result.Result[string, dErrors.Fail] {
	if ref == nil {
		return result.Failure[string, dErrors.Fail](dErrors.MissingRequiredAttribute(attribute))
	}
	return command.Required(attribute+".id", ref.ID, text(attribute+".id"))
}
