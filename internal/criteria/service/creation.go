package service

import (
	"dossier/internal/criteria/models"
	"dossier/pkg/domain"
)

// requirementTable maps the client's temporary requirement ids onto the
// permanent ids allocated for them.
type requirementTable map[domain.RequirementID]domain.RequirementID

// assignIDs is the first pass: it copies the criteria with permanent ids and
// returns the requirement table built along the way.
func assignIDs(criteria []models.Criterion, newID func() string) ([]models.Criterion, requirementTable) {
	table := make(requirementTable)
	out := make([]models.Criterion, len(criteria))
	for i, c := range criteria {
		c.ID = newID()
		groups := make([]models.RequirementGroup, len(c.RequirementGroups))
		for j, g := range c.RequirementGroups {
			g.ID = newID()
			requirements := make([]models.Requirement, len(g.Requirements))
			for k, r := range g.Requirements {
				permanent := domain.RequirementID(newID())
				table[r.ID] = permanent
				r.ID = permanent
				requirements[k] = r
			}
			g.Requirements = requirements
			groups[j] = g
		}
		c.RequirementGroups = groups
		out[i] = c
	}
	return out, table
}

// relink is the second pass: conversions and coefficients get permanent ids
// and requirement relations are rewritten through the table.
func relink(conversions []models.Conversion, table requirementTable, newID func() string) []models.Conversion {
	out := make([]models.Conversion, len(conversions))
	for i, c := range conversions {
		c.ID = newID()
		if c.RelatesTo == domain.ConversionToRequirement {
			permanent, ok := table[domain.RequirementID(c.RelatedItem)]
			if !ok {
				panic("criteria: conversion relation was not resolved during validation: " + c.RelatedItem)
			}
			c.RelatedItem = permanent.String()
		}
		coefficients := make([]models.Coefficient, len(c.Coefficients))
		for j, coef := range c.Coefficients {
			coef.ID = newID()
			coefficients[j] = coef
		}
		c.Coefficients = coefficients
		out[i] = c
	}
	return out
}

// build turns a validated draft into the document to store.
func build(d models.Draft, newID func() string) models.Document {
	details := domain.DetailsAutomated
	if d.AwardCriteriaDetails != nil {
		details = *d.AwardCriteriaDetails
	}
	criteria, table := assignIDs(d.Criteria, newID)
	var conversions []models.Conversion
	if d.Conversions != nil {
		conversions = relink(d.Conversions, table, newID)
	}
	if d.Criteria == nil {
		criteria = nil
	}
	return models.Document{
		Cpid:                 d.Cpid,
		Ocid:                 d.Ocid,
		AwardCriteria:        d.AwardCriteria,
		AwardCriteriaDetails: details,
		Criteria:             criteria,
		Conversions:          conversions,
	}
}
