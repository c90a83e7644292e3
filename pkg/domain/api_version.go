package domain

import (
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
)

// APIVersion is the command envelope version.
type APIVersion string

const (
	APIVersionV1 APIVersion = "1.0.0"
)

var supportedVersions = map[APIVersion]struct{}{
	APIVersionV1: {},
}

// ParseAPIVersion rejects versions the service does not speak.
func ParseAPIVersion(s string) result.Result[APIVersion, dErrors.Fail] {
	v := APIVersion(s)
	if _, ok := supportedVersions[v]; !ok {
		return result.Failure[APIVersion, dErrors.Fail](dErrors.UnsupportedVersion(s))
	}
	return result.Success[APIVersion, dErrors.Fail](v)
}

func (v APIVersion) String() string {
	return string(v)
}
