package domain

import (
	"regexp"

	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
)

const CountryPattern = `^[A-Z]{2}$`

var countryRegexp = regexp.MustCompile(CountryPattern)

// Country is an ISO 3166-1 alpha-2 code. Rules are keyed by it.
type Country string

func ParseCountry(attribute, raw string) result.Result[Country, dErrors.Fail] {
	if !countryRegexp.MatchString(raw) {
		return result.Failure[Country, dErrors.Fail](dErrors.DataMismatchToPattern(attribute, raw, CountryPattern))
	}
	return result.Success[Country, dErrors.Fail](Country(raw))
}

func (c Country) String() string { return string(c) }
