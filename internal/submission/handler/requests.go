package handler

import (
	"fmt"
	"time"

	"dossier/internal/command"
	"dossier/internal/submission/models"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
	"dossier/pkg/rules"
)

// Statuses a caller may set directly. Pending is only ever assigned on
// creation.
var settableStatuses = domain.NewEnumSet(domain.AllSubmissionStatuses(), func(s domain.SubmissionStatus) bool {
	switch s {
	case domain.SubmissionValid, domain.SubmissionDisqualified, domain.SubmissionWithdrawn:
		return true
	case domain.SubmissionPending:
		return false
	}
	panic(fmt.Sprintf("submission: unexpected status %q", string(s)))
})

// Qualification verdicts finalizeSubmissions accepts.
var finalStatuses = domain.NewEnumSet(domain.AllQualificationStatuses(), func(s domain.QualificationStatus) bool {
	switch s {
	case domain.QualificationActive, domain.QualificationUnsuccessful:
		return true
	case domain.QualificationPending:
		return false
	}
	panic(fmt.Sprintf("submission: unexpected qualification status %q", string(s)))
})

type idRef struct {
	ID *string `json:"id"`
}

type candidateDTO struct {
	ID      *string `json:"id"`
	Name    *string `json:"name"`
	Persons []idRef `json:"persons"`
}

type documentDTO struct {
	ID           *string `json:"id"`
	DocumentType *string `json:"documentType"`
	Title        *string `json:"title"`
}

type responseDTO struct {
	ID               *string       `json:"id"`
	Value            *domain.Value `json:"value"`
	Requirement      *idRef        `json:"requirement"`
	RelatedCandidate *idRef        `json:"relatedCandidate"`
}

type submissionDTO struct {
	Candidates           []candidateDTO `json:"candidates"`
	Documents            []documentDTO  `json:"documents"`
	RequirementResponses []responseDTO  `json:"requirementResponses"`
}

type createRequest struct {
	Cpid       *string        `json:"cpid"`
	Ocid       *string        `json:"ocid"`
	Owner      *string        `json:"owner"`
	Date       *string        `json:"date"`
	Submission *submissionDTO `json:"submission"`
}

type submissionRequest struct {
	Cpid *string `json:"cpid"`
	Ocid *string `json:"ocid"`
	ID   *string `json:"submissionId"`
}

type setStateRequest struct {
	Cpid   *string `json:"cpid"`
	Ocid   *string `json:"ocid"`
	ID     *string `json:"submissionId"`
	Status *string `json:"status"`
}

type qualificationDTO struct {
	RelatedSubmission *string `json:"relatedSubmission"`
	Status            *string `json:"status"`
}

type finalizeRequest struct {
	Cpid           *string            `json:"cpid"`
	Ocid           *string            `json:"ocid"`
	Qualifications []qualificationDTO `json:"qualifications"`
}

type accessRequest struct {
	Cpid  *string `json:"cpid"`
	Ocid  *string `json:"ocid"`
	ID    *string `json:"submissionId"`
	Owner *string `json:"owner"`
	Token *string `json:"token"`
}

type minimumQuantityRequest struct {
	Cpid    *string `json:"cpid"`
	Ocid    *string `json:"ocid"`
	Country *string `json:"country"`
	Pmd     *string `json:"pmd"`
}

type statesRequest struct {
	Cpid        *string  `json:"cpid"`
	Ocid        *string  `json:"ocid"`
	Submissions []string `json:"submissionIds"`
}

type createdResponse struct {
	ID     string `json:"id"`
	Token  string `json:"token"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

type stateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func parseCpid(raw string) result.Result[domain.Cpid, dErrors.Fail] { return domain.ParseCpid(raw) }

type release struct {
	cpid domain.Cpid
	ocid domain.Ocid
}

func parseRelease(cpidRaw, ocidRaw *string) result.Result[release, dErrors.Fail] {
	cpid, fail, ok := command.Required("cpid", cpidRaw, parseCpid).Unwrap()
	if !ok {
		return result.Failure[release](fail)
	}
	ocid, fail, ok := command.Required("ocid", ocidRaw, domain.ParseOcidOf(cpid)).Unwrap()
	if !ok {
		return result.Failure[release](fail)
	}
	return result.Success[release, dErrors.Fail](release{cpid: cpid, ocid: ocid})
}

func text(attribute string) func(string) result.Result[string, dErrors.Fail] {
	return func(raw string) result.Result[string, dErrors.Fail] {
		if raw == "" {
			return result.Failure[string, dErrors.Fail](dErrors.EmptyString(attribute))
		}
		return result.Success[string, dErrors.Fail](raw)
	}
}

func (r createRequest) toParams() result.Result[models.CreateParams, dErrors.Fail] {
	rel, fail, ok := parseRelease(r.Cpid, r.Ocid).Unwrap()
	if !ok {
		return result.Failure[models.CreateParams](fail)
	}
	owner, fail, ok := command.Required("owner", r.Owner, domain.ParseOwner).Unwrap()
	if !ok {
		return result.Failure[models.CreateParams](fail)
	}
	date, fail, ok := command.Required("date", r.Date, func(raw string) result.Result[time.Time, dErrors.Fail] {
		return domain.ParseDate("date", raw)
	}).Unwrap()
	if !ok {
		return result.Failure[models.CreateParams](fail)
	}
	if r.Submission == nil {
		return result.Failure[models.CreateParams, dErrors.Fail](dErrors.MissingRequiredAttribute("submission"))
	}
	draft, fail, ok := r.Submission.toDraft().Unwrap()
	if !ok {
		return result.Failure[models.CreateParams](fail)
	}
	return result.Success[models.CreateParams, dErrors.Fail](models.CreateParams{
		Cpid: rel.cpid, Ocid: rel.ocid, Owner: owner, Date: date, Draft: draft,
	})
}

func (d submissionDTO) toDraft() result.Result[models.Draft, dErrors.Fail] {
	if d.Candidates == nil {
		return result.Failure[models.Draft, dErrors.Fail](dErrors.MissingRequiredAttribute("submission.candidates"))
	}
	if fail, ok := rules.NotEmpty("submission.candidates", d.Candidates).Unwrap(); !ok {
		return result.Failure[models.Draft](fail)
	}
	if fail, ok := rules.NotEmpty("submission.documents", d.Documents).Unwrap(); !ok {
		return result.Failure[models.Draft](fail)
	}
	if fail, ok := rules.NotEmpty("submission.requirementResponses", d.RequirementResponses).Unwrap(); !ok {
		return result.Failure[models.Draft](fail)
	}

	candidates, fail, ok := result.Traverse(d.Candidates, candidateDTO.toModel).Unwrap()
	if !ok {
		return result.Failure[models.Draft](fail)
	}
	documents, fail, ok := result.Traverse(d.Documents, documentDTO.toModel).Unwrap()
	if !ok {
		return result.Failure[models.Draft](fail)
	}
	responses, fail, ok := result.Traverse(d.RequirementResponses, responseDTO.toModel).Unwrap()
	if !ok {
		return result.Failure[models.Draft](fail)
	}
	return result.Success[models.Draft, dErrors.Fail](models.Draft{
		Candidates:           candidates,
		Documents:            documents,
		RequirementResponses: responses,
	})
}

func (c candidateDTO) toModel() result.Result[models.Candidate, dErrors.Fail] {
	id, fail, ok := command.Required("submission.candidates.id", c.ID, func(raw string) result.Result[domain.CandidateID, dErrors.Fail] {
		return domain.ParseCandidateID("submission.candidates.id", raw)
	}).Unwrap()
	if !ok {
		return result.Failure[models.Candidate](fail)
	}
	name, fail, ok := command.Required("submission.candidates.name", c.Name, text("submission.candidates.name")).Unwrap()
	if !ok {
		return result.Failure[models.Candidate](fail)
	}
	if fail, ok := rules.NotEmpty("submission.candidates.persons", c.Persons).Unwrap(); !ok {
		return result.Failure[models.Candidate](fail)
	}
	persons, fail, ok := result.Traverse(c.Persons, func(ref idRef) result.Result[domain.PersonID, dErrors.Fail] {
		return command.Required("submission.candidates.persons.id", ref.ID, func(raw string) result.Result[domain.PersonID, dErrors.Fail] {
			return domain.ParsePersonID("submission.candidates.persons.id", raw)
		})
	}).Unwrap()
	if !ok {
		return result.Failure[models.Candidate](fail)
	}
	if fail, ok := rules.NoDuplicatesOf("submission.candidates.persons.id", persons).Unwrap(); !ok {
		return result.Failure[models.Candidate](fail)
	}
	return result.Success[models.Candidate, dErrors.Fail](models.Candidate{ID: id, Name: name, Persons: persons})
}

func (d documentDTO) toModel() result.Result[models.Document, dErrors.Fail] {
	id, fail, ok := command.Required("submission.documents.id", d.ID, func(raw string) result.Result[domain.DocumentID, dErrors.Fail] {
		return domain.ParseDocumentID("submission.documents.id", raw)
	}).Unwrap()
	if !ok {
		return result.Failure[models.Document](fail)
	}
	docType, fail, ok := command.Required("submission.documents.documentType", d.DocumentType,
		text("submission.documents.documentType")).Unwrap()
	if !ok {
		return result.Failure[models.Document](fail)
	}
	if fail, ok := rules.NotBlank("submission.documents.title", d.Title).Unwrap(); !ok {
		return result.Failure[models.Document](fail)
	}
	doc := models.Document{ID: id, DocumentType: docType}
	if d.Title != nil {
		doc.Title = *d.Title
	}
	return result.Success[models.Document, dErrors.Fail](doc)
}

func (r responseDTO) toModel() result.Result[models.RequirementResponse, dErrors.Fail] {
	id, fail, ok := command.Required("submission.requirementResponses.id", r.ID,
		text("submission.requirementResponses.id")).Unwrap()
	if !ok {
		return result.Failure[models.RequirementResponse](fail)
	}
	if r.Value == nil || r.Value.IsZero() {
		return result.Failure[models.RequirementResponse, dErrors.Fail](
			dErrors.MissingRequiredAttribute("submission.requirementResponses.value"))
	}
	requirement, fail, ok := requiredRef("submission.requirementResponses.requirement", r.Requirement).Unwrap()
	if !ok {
		return result.Failure[models.RequirementResponse](fail)
	}
	candidate, fail, ok := requiredRef("submission.requirementResponses.relatedCandidate", r.RelatedCandidate).Unwrap()
	if !ok {
		return result.Failure[models.RequirementResponse](fail)
	}
	return result.Success[models.RequirementResponse, dErrors.Fail](models.RequirementResponse{
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

func (r submissionRequest) toParams() result.Result[models.PresenceParams, dErrors.Fail] {
	rel, fail, ok := parseRelease(r.Cpid, r.Ocid).Unwrap()
	if !ok {
		return result.Failure[models.PresenceParams](fail)
	}
	id, fail, ok := command.Required("submissionId", r.ID, domain.ParseSubmissionID).Unwrap()
	if !ok {
		return result.Failure[models.PresenceParams](fail)
	}
	return result.Success[models.PresenceParams, dErrors.Fail](models.PresenceParams{Cpid: rel.cpid, Ocid: rel.ocid, ID: id})
}

func (r setStateRequest) toParams() result.Result[models.SetStateParams, dErrors.Fail] {
	rel, fail, ok := parseRelease(r.Cpid, r.Ocid).Unwrap()
	if !ok {
		return result.Failure[models.SetStateParams](fail)
	}
	id, fail, ok := command.Required("submissionId", r.ID, domain.ParseSubmissionID).Unwrap()
	if !ok {
		return result.Failure[models.SetStateParams](fail)
	}
	status, fail, ok := command.Required("status", r.Status, func(raw string) result.Result[domain.SubmissionStatus, dErrors.Fail] {
		return settableStatuses.Parse("status", raw)
	}).Unwrap()
	if !ok {
		return result.Failure[models.SetStateParams](fail)
	}
	return result.Success[models.SetStateParams, dErrors.Fail](models.SetStateParams{
		Cpid: rel.cpid, Ocid: rel.ocid, ID: id, Status: status,
	})
}

func (r finalizeRequest) toParams() result.Result[models.FinalizeParams, dErrors.Fail] {
	rel, fail, ok := parseRelease(r.Cpid, r.Ocid).Unwrap()
	if !ok {
		return result.Failure[models.FinalizeParams](fail)
	}
	if r.Qualifications == nil {
		return result.Failure[models.FinalizeParams, dErrors.Fail](dErrors.MissingRequiredAttribute("qualifications"))
	}
	if fail, ok := rules.NotEmpty("qualifications", r.Qualifications).Unwrap(); !ok {
		return result.Failure[models.FinalizeParams](fail)
	}
	qualifications, fail, ok := result.Traverse(r.Qualifications, qualificationDTO.toModel).Unwrap()
	if !ok {
		return result.Failure[models.FinalizeParams](fail)
	}
	if fail, ok := rules.NoDuplicates("qualifications.relatedSubmission", qualifications,
		func(q models.Qualification) domain.SubmissionID { return q.RelatedSubmission }).Unwrap(); !ok {
		return result.Failure[models.FinalizeParams](fail)
	}
	return result.Success[models.FinalizeParams, dErrors.Fail](models.FinalizeParams{
		Cpid: rel.cpid, Ocid: rel.ocid, Qualifications: qualifications,
	})
}

func (q qualificationDTO) toModel() result.Result[models.Qualification, dErrors.Fail] {
	id, fail, ok := command.Required("qualifications.relatedSubmission", q.RelatedSubmission,
		func(raw string) result.Result[domain.SubmissionID, dErrors.Fail] {
			return domain.ParseSubmissionIDAttribute("qualifications.relatedSubmission", raw)
		}).Unwrap()
	if !ok {
		return result.Failure[models.Qualification](fail)
	}
	status, fail, ok := command.Required("qualifications.status", q.Status,
		func(raw string) result.Result[domain.QualificationStatus, dErrors.Fail] {
			return finalStatuses.Parse("qualifications.status", raw)
		}).Unwrap()
	if !ok {
		return result.Failure[models.Qualification](fail)
	}
	return result.Success[models.Qualification, dErrors.Fail](models.Qualification{RelatedSubmission: id, Status: status})
}

func (r accessRequest) toParams() result.Result[models.AccessParams, dErrors.Fail] {
	rel, fail, ok := parseRelease(r.Cpid, r.Ocid).Unwrap()
	if !ok {
		return result.Failure[models.AccessParams](fail)
	}
	id, fail, ok := command.Required("submissionId", r.ID, domain.ParseSubmissionID).Unwrap()
	if !ok {
		return result.Failure[models.AccessParams](fail)
	}
	owner, fail, ok := command.Required("owner", r.Owner, domain.ParseOwner).Unwrap()
	if !ok {
		return result.Failure[models.AccessParams](fail)
	}
	token, fail, ok := command.Required("token", r.Token, domain.ParseToken).Unwrap()
	if !ok {
		return result.Failure[models.AccessParams](fail)
	}
	return result.Success[models.AccessParams, dErrors.Fail](models.AccessParams{
		Cpid: rel.cpid, Ocid: rel.ocid, ID: id, Owner: owner, Token: token,
	})
}

func (r minimumQuantityRequest) toParams() result.Result[models.MinimumQuantityParams, dErrors.Fail] {
	rel, fail, ok := parseRelease(r.Cpid, r.Ocid).Unwrap()
	if !ok {
		return result.Failure[models.MinimumQuantityParams](fail)
	}
	country, fail, ok := command.Required("country", r.Country, func(raw string) result.Result[domain.Country, dErrors.Fail] {
		return domain.ParseCountry("country", raw)
	}).Unwrap()
	if !ok {
		return result.Failure[models.MinimumQuantityParams](fail)
	}
	pmd, fail, ok := command.Required("pmd", r.Pmd, func(raw string) result.Result[domain.ProcurementMethod, dErrors.Fail] {
		return domain.ParseProcurementMethod("pmd", raw)
	}).Unwrap()
	if !ok {
		return result.Failure[models.MinimumQuantityParams](fail)
	}
	return result.Success[models.MinimumQuantityParams, dErrors.Fail](models.MinimumQuantityParams{
		Cpid: rel.cpid, Ocid: rel.ocid, Country: country, Pmd: pmd,
	})
}

func (r statesRequest) toParams() result.Result[models.StatesParams, dErrors.Fail] {
	rel, fail, ok := parseRelease(r.Cpid, r.Ocid).Unwrap()
	if !ok {
		return result.Failure[models.StatesParams](fail)
	}
	if r.Submissions == nil {
		return result.Failure[models.StatesParams, dErrors.Fail](dErrors.MissingRequiredAttribute("submissionIds"))
	}
	if fail, ok := rules.Collection("submissionIds", r.Submissions, func(id string) string { return id }).Unwrap(); !ok {
		return result.Failure[models.StatesParams](fail)
	}
	ids, fail, ok := result.Traverse(r.Submissions, func(raw string) result.Result[domain.SubmissionID, dErrors.Fail] {
		return domain.ParseSubmissionIDAttribute("submissionIds", raw)
	}).Unwrap()
	if !ok {
		return result.Failure[models.StatesParams](fail)
	}
	return result.Success[models.StatesParams, dErrors.Fail](models.StatesParams{Cpid: rel.cpid, Ocid: rel.ocid, IDs: ids})
}

func toStateResponses(states []models.State) []stateResponse {
	out := make([]stateResponse, len(states))
	for i, st := range states {
		out[i] = stateResponse{ID: st.ID.String(), Status: st.Status.String()}
	}
	return out
}
