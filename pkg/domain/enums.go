package domain

import (
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
)

// Stage is the release stage token embedded in an ocid.
type Stage string

const (
	StageAC Stage = "AC"
	StageAP Stage = "AP"
	StageEI Stage = "EI"
	StageEV Stage = "EV"
	StageFE Stage = "FE"
	StageFS Stage = "FS"
	StageNP Stage = "NP"
	StagePC Stage = "PC"
	StagePN Stage = "PN"
	StagePQ Stage = "PQ"
	StagePS Stage = "PS"
	StageRQ Stage = "RQ"
	StageTP Stage = "TP"
)

var stages = FullEnumSet([]Stage{
	StageAC, StageAP, StageEI, StageEV, StageFE, StageFS, StageNP,
	StagePC, StagePN, StagePQ, StagePS, StageRQ, StageTP,
})

func ParseStage(attribute, raw string) result.Result[Stage, dErrors.Fail] {
	return stages.Parse(attribute, raw)
}

func (s Stage) String() string { return string(s) }

// ProcurementMethodKind groups procurement methods by how open the
// competition is.
type ProcurementMethodKind string

const (
	KindOpen      ProcurementMethodKind = "open"
	KindSelective ProcurementMethodKind = "selective"
	KindLimited   ProcurementMethodKind = "limited"
)

// ProcurementMethod is the procurement method details code (pmd).
type ProcurementMethod string

const (
	PmdOT      ProcurementMethod = "OT"
	PmdTestOT  ProcurementMethod = "TEST_OT"
	PmdSV      ProcurementMethod = "SV"
	PmdTestSV  ProcurementMethod = "TEST_SV"
	PmdMV      ProcurementMethod = "MV"
	PmdTestMV  ProcurementMethod = "TEST_MV"
	PmdRT      ProcurementMethod = "RT"
	PmdTestRT  ProcurementMethod = "TEST_RT"
	PmdGPA     ProcurementMethod = "GPA"
	PmdTestGPA ProcurementMethod = "TEST_GPA"
	PmdDA      ProcurementMethod = "DA"
	PmdTestDA  ProcurementMethod = "TEST_DA"
	PmdNP      ProcurementMethod = "NP"
	PmdTestNP  ProcurementMethod = "TEST_NP"
	PmdOP      ProcurementMethod = "OP"
	PmdTestOP  ProcurementMethod = "TEST_OP"
)

var procurementMethods = FullEnumSet([]ProcurementMethod{
	PmdOT, PmdTestOT, PmdSV, PmdTestSV, PmdMV, PmdTestMV,
	PmdRT, PmdTestRT, PmdGPA, PmdTestGPA,
	PmdDA, PmdTestDA, PmdNP, PmdTestNP, PmdOP, PmdTestOP,
})

func ParseProcurementMethod(attribute, raw string) result.Result[ProcurementMethod, dErrors.Fail] {
	return procurementMethods.Parse(attribute, raw)
}

func AllProcurementMethods() []ProcurementMethod {
	return append([]ProcurementMethod(nil), procurementMethods.members...)
}

func (p ProcurementMethod) String() string { return string(p) }

// Kind tags the method as open, selective or limited.
func (p ProcurementMethod) Kind() ProcurementMethodKind {
	switch p {
	case PmdOT, PmdTestOT, PmdSV, PmdTestSV, PmdMV, PmdTestMV:
		return KindOpen
	case PmdRT, PmdTestRT, PmdGPA, PmdTestGPA:
		return KindSelective
	case PmdDA, PmdTestDA, PmdNP, PmdTestNP, PmdOP, PmdTestOP:
		return KindLimited
	}
	panic(unexpected(p))
}

// SubmissionStatus is the lifecycle state of a submission.
type SubmissionStatus string

const (
	SubmissionPending      SubmissionStatus = "pending"
	SubmissionValid        SubmissionStatus = "valid"
	SubmissionDisqualified SubmissionStatus = "disqualified"
	SubmissionWithdrawn    SubmissionStatus = "withdrawn"
)

func AllSubmissionStatuses() []SubmissionStatus {
	return []SubmissionStatus{SubmissionPending, SubmissionValid, SubmissionDisqualified, SubmissionWithdrawn}
}

func ParseSubmissionStatus(attribute, raw string) result.Result[SubmissionStatus, dErrors.Fail] {
	return FullEnumSet(AllSubmissionStatuses()).Parse(attribute, raw)
}

func (s SubmissionStatus) String() string { return string(s) }

// QualificationStatus is the verdict a qualification gives a submission.
type QualificationStatus string

const (
	QualificationPending      QualificationStatus = "pending"
	QualificationActive       QualificationStatus = "active"
	QualificationUnsuccessful QualificationStatus = "unsuccessful"
)

func AllQualificationStatuses() []QualificationStatus {
	return []QualificationStatus{QualificationPending, QualificationActive, QualificationUnsuccessful}
}

func (s QualificationStatus) String() string { return string(s) }

type AwardCriteria string

const (
	AwardPriceOnly     AwardCriteria = "priceOnly"
	AwardCostOnly      AwardCriteria = "costOnly"
	AwardQualityOnly   AwardCriteria = "qualityOnly"
	AwardRatedCriteria AwardCriteria = "ratedCriteria"
)

func AllAwardCriteria() []AwardCriteria {
	return []AwardCriteria{AwardPriceOnly, AwardCostOnly, AwardQualityOnly, AwardRatedCriteria}
}

func (a AwardCriteria) String() string { return string(a) }

type AwardCriteriaDetails string

const (
	DetailsAutomated AwardCriteriaDetails = "automated"
	DetailsManual    AwardCriteriaDetails = "manual"
)

func AllAwardCriteriaDetails() []AwardCriteriaDetails {
	return []AwardCriteriaDetails{DetailsAutomated, DetailsManual}
}

func (d AwardCriteriaDetails) String() string { return string(d) }

// ConversionRelatesTo names what a conversion converts.
type ConversionRelatesTo string

const (
	ConversionToRequirement ConversionRelatesTo = "requirement"
	ConversionToObservation ConversionRelatesTo = "observation"
	ConversionToOption      ConversionRelatesTo = "option"
)

func AllConversionRelatesTo() []ConversionRelatesTo {
	return []ConversionRelatesTo{ConversionToRequirement, ConversionToObservation, ConversionToOption}
}

func (c ConversionRelatesTo) String() string { return string(c) }

// CriterionRelatesTo names what a criterion is assessed against.
type CriterionRelatesTo string

const (
	CriterionToTenderer CriterionRelatesTo = "tenderer"
	CriterionToItem     CriterionRelatesTo = "item"
	CriterionToLot      CriterionRelatesTo = "lot"
	CriterionToAward    CriterionRelatesTo = "award"
)

func AllCriterionRelatesTo() []CriterionRelatesTo {
	return []CriterionRelatesTo{CriterionToTenderer, CriterionToItem, CriterionToLot, CriterionToAward}
}

func (c CriterionRelatesTo) String() string { return string(c) }

// DataType is the declared type of a requirement value.
type DataType string

const (
	DataTypeBoolean DataType = "boolean"
	DataTypeString  DataType = "string"
	DataTypeNumber  DataType = "number"
	DataTypeInteger DataType = "integer"
)

func AllDataTypes() []DataType {
	return []DataType{DataTypeBoolean, DataTypeString, DataTypeNumber, DataTypeInteger}
}

func ParseDataType(attribute, raw string) result.Result[DataType, dErrors.Fail] {
	return FullEnumSet(AllDataTypes()).Parse(attribute, raw)
}

// IsNumeric reports whether min/max bounds make sense for the type.
func (d DataType) IsNumeric() bool {
	switch d {
	case DataTypeNumber, DataTypeInteger:
		return true
	case DataTypeBoolean, DataTypeString:
		return false
	}
	panic(unexpected(d))
}

func (d DataType) String() string { return string(d) }
