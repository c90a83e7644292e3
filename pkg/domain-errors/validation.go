package domainerrors

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Rule codes. The dotted number identifies the command and the rule inside
// it and is stable once published.
const (
	CodeInvalidPeriodDates         Code = "VR-10.1.1.1"
	CodeInvalidPeriodDuration      Code = "VR-10.1.1.2"
	CodePeriodRuleNotFound         Code = "VR-10.1.2.1"
	CodePeriodNotFound             Code = "VR-10.2.1.1"
	CodeDateOutsidePeriod          Code = "VR-10.2.2.1"
	CodeInvalidPeriodEndDate       Code = "VR-10.2.3.1"
	CodeSaveInvalidPeriodDates     Code = "VR-10.3.1.1"
	CodeSaveInvalidPeriodEndDate   Code = "VR-10.3.2.1"
	CodePresenceSubmissionNotFound Code = "VR-10.4.1.1"
	CodeCandidateInManySubmissions Code = "VR-10.4.2.1"
	CodeRequirementNotFound        Code = "VR-10.5.1.1"
	CodeResponseDataTypeMismatch   Code = "VR-10.5.1.2"
	CodeDuplicateResponse          Code = "VR-10.5.2.1"
	CodeMissingResponse            Code = "VR-10.5.3.1"
	CodeRelatedCandidateNotFound   Code = "VR-10.5.4.1"
	CodeResponseCriteriaNotFound   Code = "VR-10.5.5.1"
	CodeSubmissionPeriodNotFound   Code = "VR-10.6.1.1"
	CodeSubmissionDateOutside      Code = "VR-10.6.1.2"
	CodeDuplicateCandidate         Code = "VR-10.6.2.1"
	CodeStateSubmissionNotFound    Code = "VR-10.7.1.1"
	CodeAccessSubmissionNotFound   Code = "VR-10.8.1.1"
	CodeInvalidOwner               Code = "VR-10.8.1.2"
	CodeInvalidToken               Code = "VR-10.8.1.3"
	CodeMinimumRuleNotFound        Code = "VR-10.9.1.1"
	CodeNotEnoughSubmissions       Code = "VR-10.9.1.2"

	CodeAwardCriteriaDetailsRequired Code = "VR-11.1.1"
	CodeConversionsRequired          Code = "VR-11.1.3"
	CodeCriteriaRequired             Code = "VR-11.1.4"
	CodeDuplicatedCoefficientValue   Code = "VR-11.2.1"
	CodeRelatedItemNotFound          Code = "VR-11.3.1"
	CodeConversionRelationNotFound   Code = "VR-11.3.2"
	CodeConversionWithoutGroups      Code = "VR-11.3.3"
	CodeRequirementDataTypeMismatch  Code = "VR-11.4.1"
	CodeMinGreaterThanMax            Code = "VR-11.4.2"
	CodeInvalidRequirementPeriod     Code = "VR-11.4.3"
	CodeCoefficientDataTypeMismatch  Code = "VR-11.4.4"
	CodeCoefficientOutOfRange        Code = "VR-11.4.5"
	CodeCastCoefficientExceeded      Code = "VR-11.4.6"
	CodeMinMaxOnNonNumeric           Code = "VR-11.4.7"
	CodeCriteriaAlreadyExist         Code = "VR-11.6.1"
)

// ValidationError reports well-formed input that breaks a business rule.
type ValidationError struct {
	code        Code
	description string
}

func (e *ValidationError) Error() string       { return e.Message() }
func (e *ValidationError) Code() Code          { return e.code }
func (e *ValidationError) Description() string { return e.description }
func (e *ValidationError) Message() string     { return message(e.code, e.description) }
func (e *ValidationError) Kind() Kind          { return KindError }
func (e *ValidationError) sealed()             {}

func (e *ValidationError) Log(ctx context.Context, logger *slog.Logger) {
	logger.WarnContext(ctx, e.Message(), "code", e.code)
}

func newValidation(code Code, format string, args ...any) *ValidationError {
	return &ValidationError{code: code, description: fmt.Sprintf(format, args...)}
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// period

func InvalidPeriodDates(start, end time.Time) *ValidationError {
	return newValidation(CodeInvalidPeriodDates,
		"Period start date '%s' must precede end date '%s'.", formatDate(start), formatDate(end))
}

func InvalidPeriodDuration(actual, expected time.Duration) *ValidationError {
	return newValidation(CodeInvalidPeriodDuration,
		"Period duration '%s' is shorter than the required '%s'.", actual, expected)
}

func PeriodRuleNotFound(country, pmd string) *ValidationError {
	return newValidation(CodePeriodRuleNotFound,
		"Period duration rule not found by country '%s' and pmd '%s'.", country, pmd)
}

func PeriodNotFound(cpid, ocid string) *ValidationError {
	return newValidation(CodePeriodNotFound,
		"Period not found by cpid '%s' and ocid '%s'.", cpid, ocid)
}

func DateOutsidePeriod(date, start, end time.Time) *ValidationError {
	return newValidation(CodeDateOutsidePeriod,
		"Date '%s' must be after period start date '%s' and before period end date '%s'.",
		formatDate(date), formatDate(start), formatDate(end))
}

func InvalidPeriodEndDate(newEnd, storedEnd time.Time) *ValidationError {
	return newValidation(CodeInvalidPeriodEndDate,
		"Period end date '%s' must not precede the stored end date '%s'.", formatDate(newEnd), formatDate(storedEnd))
}

func SaveInvalidPeriodDates(start, end time.Time) *ValidationError {
	return newValidation(CodeSaveInvalidPeriodDates,
		"Period start date '%s' must precede end date '%s'.", formatDate(start), formatDate(end))
}

func SaveInvalidPeriodEndDate(newEnd, storedEnd time.Time) *ValidationError {
	return newValidation(CodeSaveInvalidPeriodEndDate,
		"Period end date '%s' must not precede the stored end date '%s'.", formatDate(newEnd), formatDate(storedEnd))
}

// submissions

func PresenceSubmissionNotFound(id string) *ValidationError {
	return newValidation(CodePresenceSubmissionNotFound, "Submission '%s' not found.", id)
}

func CandidateInManySubmissions(candidate string, submissions []string) *ValidationError {
	return newValidation(CodeCandidateInManySubmissions,
		"Candidate '%s' is present in more than one submission: '%s'.", candidate, strings.Join(submissions, ", "))
}

func RequirementNotFound(requirement string) *ValidationError {
	return newValidation(CodeRequirementNotFound, "Requirement '%s' not found.", requirement)
}

func ResponseDataTypeMismatch(response, expected, actual string) *ValidationError {
	return newValidation(CodeResponseDataTypeMismatch,
		"Requirement response '%s' has data type '%s', requirement expects '%s'.", response, actual, expected)
}

func DuplicateResponse(requirement, candidate string) *ValidationError {
	return newValidation(CodeDuplicateResponse,
		"Requirement '%s' has more than one response for candidate '%s'.", requirement, candidate)
}

func MissingResponse(requirements []string) *ValidationError {
	return newValidation(CodeMissingResponse,
		"Missing responses for requirements: '%s'.", strings.Join(requirements, ", "))
}

func RelatedCandidateNotFound(response, candidate string) *ValidationError {
	return newValidation(CodeRelatedCandidateNotFound,
		"Requirement response '%s' relates to unknown candidate '%s'.", response, candidate)
}

func ResponseCriteriaNotFound(cpid string) *ValidationError {
	return newValidation(CodeResponseCriteriaNotFound, "Criteria not found by cpid '%s'.", cpid)
}

func SubmissionPeriodNotFound(cpid, ocid string) *ValidationError {
	return newValidation(CodeSubmissionPeriodNotFound,
		"Submission period not found by cpid '%s' and ocid '%s'.", cpid, ocid)
}

func SubmissionDateOutside(date, start, end time.Time) *ValidationError {
	return newValidation(CodeSubmissionDateOutside,
		"Submission date '%s' must be after period start date '%s' and before period end date '%s'.",
		formatDate(date), formatDate(start), formatDate(end))
}

func DuplicateCandidate(candidate string) *ValidationError {
	return newValidation(CodeDuplicateCandidate,
		"Candidate '%s' is declared more than once in the submission.", candidate)
}

func StateSubmissionNotFound(ids []string) *ValidationError {
	return newValidation(CodeStateSubmissionNotFound,
		"Submissions not found: '%s'.", strings.Join(ids, ", "))
}

func AccessSubmissionNotFound(id string) *ValidationError {
	return newValidation(CodeAccessSubmissionNotFound, "Submission '%s' not found.", id)
}

func InvalidOwner(id string) *ValidationError {
	return newValidation(CodeInvalidOwner, "Request owner does not own submission '%s'.", id)
}

func InvalidToken(id string) *ValidationError {
	return newValidation(CodeInvalidToken, "Request token does not match submission '%s'.", id)
}

func MinimumRuleNotFound(country, pmd string) *ValidationError {
	return newValidation(CodeMinimumRuleNotFound,
		"Minimum submissions rule not found by country '%s' and pmd '%s'.", country, pmd)
}

func NotEnoughSubmissions(actual int, minimum int64) *ValidationError {
	return newValidation(CodeNotEnoughSubmissions,
		"Found %d submissions, at least %d required.", actual, minimum)
}

// criteria

func AwardCriteriaDetailsRequired(awardCriteria string) *ValidationError {
	return newValidation(CodeAwardCriteriaDetailsRequired,
		"Attribute 'awardCriteriaDetails' is required when 'awardCriteria' is '%s'.", awardCriteria)
}

func ConversionsRequired() *ValidationError {
	return newValidation(CodeConversionsRequired,
		"Attribute 'conversions' is required when 'criteria' are present.")
}

func CriteriaRequired() *ValidationError {
	return newValidation(CodeCriteriaRequired,
		"Attribute 'criteria' is required when 'conversions' are present.")
}

func DuplicatedCoefficientValue(conversion, value string) *ValidationError {
	return newValidation(CodeDuplicatedCoefficientValue,
		"Conversion '%s' has a duplicated coefficient value '%s'.", conversion, value)
}

func RelatedItemNotFound(criterion, item string) *ValidationError {
	return newValidation(CodeRelatedItemNotFound,
		"Criterion '%s' relates to unknown item '%s'.", criterion, item)
}

func ConversionRelationNotFound(conversion, relatedItem string) *ValidationError {
	return newValidation(CodeConversionRelationNotFound,
		"Conversion '%s' relates to unknown requirement '%s'.", conversion, relatedItem)
}

func ConversionWithoutGroups(conversion string) *ValidationError {
	return newValidation(CodeConversionWithoutGroups,
		"Conversion '%s' has no criteria requirement group to relate to.", conversion)
}

func RequirementDataTypeMismatch(requirement, expected, actual string) *ValidationError {
	return newValidation(CodeRequirementDataTypeMismatch,
		"Requirement '%s' declares data type '%s' but its value is '%s'.", requirement, expected, actual)
}

func MinGreaterThanMax(requirement string) *ValidationError {
	return newValidation(CodeMinGreaterThanMax,
		"Requirement '%s' has 'minValue' greater than 'maxValue'.", requirement)
}

func InvalidRequirementPeriod(requirement string) *ValidationError {
	return newValidation(CodeInvalidRequirementPeriod,
		"Requirement '%s' period start date must precede end date.", requirement)
}

func CoefficientDataTypeMismatch(coefficient, expected, actual string) *ValidationError {
	return newValidation(CodeCoefficientDataTypeMismatch,
		"Coefficient '%s' value has data type '%s', related requirement expects '%s'.", coefficient, actual, expected)
}

func CoefficientOutOfRange(coefficient, value, minimum, maximum string) *ValidationError {
	return newValidation(CodeCoefficientOutOfRange,
		"Coefficient '%s' value '%s' is out of range [%s, %s].", coefficient, value, minimum, maximum)
}

func CastCoefficientExceeded(conversion, cast, limit string) *ValidationError {
	return newValidation(CodeCastCoefficientExceeded,
		"Conversion '%s' cast coefficient '%s' exceeds the limit '%s'.", conversion, cast, limit)
}

func MinMaxOnNonNumeric(requirement, dataType string) *ValidationError {
	return newValidation(CodeMinMaxOnNonNumeric,
		"Requirement '%s' of data type '%s' cannot declare 'minValue' or 'maxValue'.", requirement, dataType)
}

func CriteriaAlreadyExist(cpid string) *ValidationError {
	return newValidation(CodeCriteriaAlreadyExist, "Criteria already exist for cpid '%s'.", cpid)
}
