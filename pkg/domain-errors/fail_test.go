package domainerrors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageTemplate(t *testing.T) {
	tests := []struct {
		name string
		fail Fail
		want string
	}{
		{
			name: "request error",
			fail: UnknownAction("fly"),
			want: "ERROR CODE: 'RQ-2', DESCRIPTION: 'Unknown action 'fly'.'.",
		},
		{
			name: "data error",
			fail: EmptyArray("tender.criteria"),
			want: "ERROR CODE: 'DR-10', DESCRIPTION: 'Attribute 'tender.criteria' is an empty array.'.",
		},
		{
			name: "validation error",
			fail: RequirementNotFound("req-1"),
			want: "ERROR CODE: 'VR-10.5.1.1', DESCRIPTION: 'Requirement 'req-1' not found.'.",
		},
		{
			name: "incident",
			fail: DatabaseInteraction(errors.New("connection refused")),
			want: "ERROR CODE: 'INC-1.1', DESCRIPTION: 'Database interaction error.'.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fail.Message())
			assert.Equal(t, tt.want, tt.fail.Error())
		})
	}
}

func TestDataErrorCarriesAttribute(t *testing.T) {
	fail := DataMismatchToPattern("cpid", "bad", "^x$")
	assert.Equal(t, CodeDataMismatchToPattern, fail.Code())
	assert.Equal(t, "cpid", fail.Attribute())
	assert.Equal(t, "bad", fail.Actual())
	assert.Equal(t, "^x$", fail.Expected())
	assert.Contains(t, fail.Description(), "^x$")

	unknown := UnknownValue("qualificationStatus", "pending", []string{"active", "unsuccessful"})
	assert.Equal(t, "active, unsuccessful", unknown.Expected())
	assert.Contains(t, unknown.Description(), "'active, unsuccessful'")
}

func TestMatch(t *testing.T) {
	family := func(f Fail) string {
		return Match(f,
			func(*RequestError) string { return "request" },
			func(*DataError) string { return "data" },
			func(*ValidationError) string { return "validation" },
			func(*Incident) string { return "incident" },
		)
	}

	assert.Equal(t, "request", family(RequestParsing(errors.New("eof"))))
	assert.Equal(t, "data", family(MissingRequiredAttribute("id")))
	assert.Equal(t, "validation", family(PeriodNotFound("a", "b")))
	assert.Equal(t, "incident", family(Configuration("missing dsn")))
}

func TestLookupHelpers(t *testing.T) {
	wrapped := fmt.Errorf("saving period: %w", InvalidPeriodEndDate(time.Now(), time.Now()))

	t.Run("as finds a wrapped fail", func(t *testing.T) {
		fail, ok := As(wrapped)
		require.True(t, ok)
		assert.Equal(t, CodeInvalidPeriodEndDate, fail.Code())

		_, ok = As(errors.New("plain"))
		assert.False(t, ok)
		_, ok = As(nil)
		assert.False(t, ok)
	})

	t.Run("has code", func(t *testing.T) {
		assert.True(t, HasCode(wrapped, CodeInvalidPeriodEndDate))
		assert.False(t, HasCode(wrapped, CodePeriodNotFound))
		assert.False(t, HasCode(errors.New("plain"), CodePeriodNotFound))
	})

	t.Run("is incident", func(t *testing.T) {
		assert.True(t, IsIncident(BusUnavailable(nil)))
		assert.False(t, IsIncident(wrapped))
	})

	t.Run("from store keeps fails and wraps the rest", func(t *testing.T) {
		cause := errors.New("timeout")
		fail := FromStore(cause)
		assert.Equal(t, CodeDatabaseInteraction, fail.Code())
		assert.ErrorIs(t, fail, cause)

		consistency := DatabaseConsistency("two periods")
		assert.Same(t, consistency, FromStore(fmt.Errorf("find: %w", consistency)))
	})
}

func TestLogRouting(t *testing.T) {
	capture := func(f Fail) map[string]any {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		f.Log(context.Background(), logger)
		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		return record
	}

	tests := []struct {
		name  string
		fail  Fail
		level string
	}{
		{"validation errors warn", CriteriaAlreadyExist("ocds-b3wdp1-MD-1580458690892"), "WARN"},
		{"data errors warn", EmptyString("id"), "WARN"},
		{"error incidents", DatabaseParsing("status", "zzz", nil), "ERROR"},
		{"warning incidents", BusUnavailable(errors.New("broker down")), "WARN"},
		{"info incidents", Configuration("default port"), "INFO"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := capture(tt.fail)
			assert.Equal(t, tt.level, record["level"])
			assert.Equal(t, tt.fail.Message(), record["msg"])
			assert.Equal(t, string(tt.fail.Code()), record["code"])
		})
	}
}
