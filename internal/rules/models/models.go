package models

import (
	"fmt"

	"dossier/pkg/domain"
)

// Parameter names a numeric rule value.
type Parameter string

const (
	// ParamPeriodDuration is the minimal tender period in seconds.
	ParamPeriodDuration Parameter = "periodDuration"
	// ParamMinSubmissions is the minimal number of valid submissions.
	ParamMinSubmissions Parameter = "minSubmissions"
)

func (p Parameter) String() string { return string(p) }

// Key addresses one rule value.
type Key struct {
	Country   domain.Country
	Pmd       domain.ProcurementMethod
	Parameter Parameter
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Country, k.Pmd, k.Parameter)
}

// Rule is one configured value.
type Rule struct {
	Key
	Value int64
}
