package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
)

func TestToDocument(t *testing.T) {
	cpid, _, ok := domain.ParseCpid("ocds-b3wdp1-MD-1580458690892").Unwrap()
	require.True(t, ok)
	const ocid = "ocds-b3wdp1-MD-1580458690892-EV-1580458791896"

	doc, err := toDocument(cpid, ocid, []byte(`{"awardCriteria":"priceOnly","awardCriteriaDetails":"automated"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.AwardPriceOnly, doc.AwardCriteria)
	assert.Equal(t, domain.DetailsAutomated, doc.AwardCriteriaDetails)
	assert.Equal(t, ocid, doc.Ocid.String())

	_, err = toDocument(cpid, ocid, []byte(`{"awardCriteria":"priceOnly","weights":[1]}`))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeDeserialization))

	_, err = toDocument(cpid, "nope", []byte(`{}`))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeDatabaseParsing))
}
