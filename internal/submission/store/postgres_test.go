package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
)

func storedRow(document string) submissionRow {
	return submissionRow{
		ID:       uuid.New(),
		Cpid:     "ocds-b3wdp1-MD-1580458690892",
		Ocid:     "ocds-b3wdp1-MD-1580458690892-EV-1580458791896",
		Owner:    uuid.New(),
		Token:    uuid.New(),
		Status:   "pending",
		Date:     time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
		Document: []byte(document),
	}
}

func TestToSubmission(t *testing.T) {
	t.Run("decodes the document", func(t *testing.T) {
		sub, err := toSubmission(storedRow(`{"candidates":[{"id":"c","name":"n","persons":["p-1"]}]}`))
		require.NoError(t, err)
		require.Len(t, sub.Candidates, 1)
		assert.Equal(t, []domain.PersonID{"p-1"}, sub.Candidates[0].Persons)
		assert.Equal(t, domain.SubmissionPending, sub.Status)
	})

	t.Run("unknown document field is a deserialization incident", func(t *testing.T) {
		_, err := toSubmission(storedRow(`{"candidates":[],"legacy":true}`))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDeserialization))
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := toSubmission(storedRow(`{"candidates":`))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDeserialization))
	})

	t.Run("unknown status", func(t *testing.T) {
		row := storedRow(`{"candidates":[]}`)
		row.Status = "archived"
		_, err := toSubmission(row)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDatabaseParsing))
	})
}
