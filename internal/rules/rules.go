// Package rules resolves the numeric parameters of the business rules:
// minimal period durations and minimal submission counts per country and
// procurement method. The rules themselves are compiled in; only their
// parameters live here.
package rules

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"dossier/internal/rules/models"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/sentinel"
)

// Store holds rule values. Find returns sentinel.ErrNotFound for unknown keys.
type Store interface {
	Find(ctx context.Context, key models.Key) (int64, error)
	Upsert(ctx context.Context, rules []models.Rule) error
}

// Repository exposes typed lookups over a Store.
type Repository struct {
	store Store
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) FindPeriodDuration(ctx context.Context, country domain.Country, pmd domain.ProcurementMethod) (time.Duration, bool, error) {
	key := models.Key{Country: country, Pmd: pmd, Parameter: models.ParamPeriodDuration}
	seconds, found, err := r.find(ctx, key)
	if err != nil || !found {
		return 0, found, err
	}
	d, fail, ok := domain.ParseDurationSeconds(key.String(), seconds).Unwrap()
	if !ok {
		return 0, false, dErrors.DatabaseParsing(key.String(), strconv.FormatInt(seconds, 10), fail)
	}
	return d, true, nil
}

func (r *Repository) FindMinimumSubmissions(ctx context.Context, country domain.Country, pmd domain.ProcurementMethod) (int64, bool, error) {
	return r.find(ctx, models.Key{Country: country, Pmd: pmd, Parameter: models.ParamMinSubmissions})
}

func (r *Repository) find(ctx context.Context, key models.Key) (int64, bool, error) {
	v, err := r.store.Find(ctx, key)
	if errors.Is(err, sentinel.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

type seedFile struct {
	Rules []seedRule `yaml:"rules"`
}

type seedRule struct {
	Country        string `yaml:"country"`
	Pmd            string `yaml:"pmd"`
	PeriodDuration string `yaml:"periodDuration"`
	MinSubmissions *int64 `yaml:"minSubmissions"`
}

// Parse reads a YAML rules file:
//
//	rules:
//	  - country: MD
//	    pmd: OT
//	    periodDuration: 240h
//	    minSubmissions: 1
func Parse(r io.Reader) ([]models.Rule, error) {
	var file seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	var out []models.Rule
	for i, sr := range file.Rules {
		country, fail, ok := domain.ParseCountry("country", sr.Country).Unwrap()
		if !ok {
			return nil, fmt.Errorf("rule %d: %w", i, fail)
		}
		pmd, fail, ok := domain.ParseProcurementMethod("pmd", sr.Pmd).Unwrap()
		if !ok {
			return nil, fmt.Errorf("rule %d: %w", i, fail)
		}
		if sr.PeriodDuration != "" {
			d, err := time.ParseDuration(sr.PeriodDuration)
			if err != nil || d <= 0 {
				return nil, fmt.Errorf("rule %d: invalid periodDuration %q", i, sr.PeriodDuration)
			}
			out = append(out, models.Rule{
				Key:   models.Key{Country: country, Pmd: pmd, Parameter: models.ParamPeriodDuration},
				Value: int64(d / time.Second),
			})
		}
		if sr.MinSubmissions != nil {
			if *sr.MinSubmissions < 0 {
				return nil, fmt.Errorf("rule %d: negative minSubmissions", i)
			}
			out = append(out, models.Rule{
				Key:   models.Key{Country: country, Pmd: pmd, Parameter: models.ParamMinSubmissions},
				Value: *sr.MinSubmissions,
			})
		}
	}
	return out, nil
}

// Import parses a rules file and upserts it.
func Import(ctx context.Context, store Store, r io.Reader) (int, error) {
	rules, err := Parse(r)
	if err != nil {
		return 0, err
	}
	if err := store.Upsert(ctx, rules); err != nil {
		return 0, fmt.Errorf("store rules: %w", err)
	}
	return len(rules), nil
}
