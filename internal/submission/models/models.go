package models

import (
	"time"

	"dossier/pkg/domain"
)

// Submission is a bid of one or more candidates within a release.
type Submission struct {
	ID                   domain.SubmissionID
	Cpid                 domain.Cpid
	Ocid                 domain.Ocid
	Owner                domain.Owner
	Token                domain.Token
	Status               domain.SubmissionStatus
	Date                 time.Time
	Candidates           []Candidate
	Documents            []Document
	RequirementResponses []RequirementResponse
}

// HasCandidate reports whether the submission declares the candidate.
func (s Submission) HasCandidate(id domain.CandidateID) bool {
	for _, c := range s.Candidates {
		if c.ID == id {
			return true
		}
	}
	return false
}

// State projects the status of a submission.
func (s Submission) State() State {
	return State{ID: s.ID, Status: s.Status}
}

// Candidate is a tenderer of the submission. Persons are the people
// authorised to act for it.
type Candidate struct {
	ID      domain.CandidateID `json:"id"`
	Name    string             `json:"name"`
	Persons []domain.PersonID  `json:"persons,omitempty"`
}

type Document struct {
	ID           domain.DocumentID `json:"id"`
	DocumentType string            `json:"documentType"`
	Title        string            `json:"title,omitempty"`
}

// RequirementResponse answers one requirement on behalf of a candidate.
type RequirementResponse struct {
	ID               string               `json:"id"`
	Value            domain.Value         `json:"value"`
	Requirement      domain.RequirementID `json:"requirement"`
	RelatedCandidate domain.CandidateID   `json:"relatedCandidate"`
}

// State is the status of one submission.
type State struct {
	ID     domain.SubmissionID
	Status domain.SubmissionStatus
}

// Draft is the client part of a new submission.
type Draft struct {
	Candidates           []Candidate
	Documents            []Document
	RequirementResponses []RequirementResponse
}

type CreateParams struct {
	Cpid  domain.Cpid
	Ocid  domain.Ocid
	Owner domain.Owner
	Date  time.Time
	Draft Draft
}

// Created is returned to the owner once; the token authorizes later access.
type Created struct {
	ID     domain.SubmissionID
	Token  domain.Token
	Status domain.SubmissionStatus
	Date   time.Time
}

type PresenceParams struct {
	Cpid domain.Cpid
	Ocid domain.Ocid
	ID   domain.SubmissionID
}

type SetStateParams struct {
	Cpid   domain.Cpid
	Ocid   domain.Ocid
	ID     domain.SubmissionID
	Status domain.SubmissionStatus
}

// Qualification is the outcome of evaluating one submission.
type Qualification struct {
	RelatedSubmission domain.SubmissionID
	Status            domain.QualificationStatus
}

type FinalizeParams struct {
	Cpid           domain.Cpid
	Ocid           domain.Ocid
	Qualifications []Qualification
}

type AccessParams struct {
	Cpid  domain.Cpid
	Ocid  domain.Ocid
	ID    domain.SubmissionID
	Owner domain.Owner
	Token domain.Token
}

type MinimumQuantityParams struct {
	Cpid    domain.Cpid
	Ocid    domain.Ocid
	Country domain.Country
	Pmd     domain.ProcurementMethod
}

type StatesParams struct {
	Cpid domain.Cpid
	Ocid domain.Ocid
	IDs  []domain.SubmissionID
}
