package command

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/internal/platform/metrics"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/requestcontext"
	"dossier/pkg/result"
)

type recordingReporter struct {
	mu        sync.Mutex
	incidents []IncidentDetails
	err       error
}

func (r *recordingReporter) Report(_ context.Context, incident IncidentDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incidents = append(r.incidents, incident)
	return r.err
}

type echoParams struct {
	Value *string `json:"value"`
}

func newTestDispatcher(t *testing.T, reporter IncidentReporter) (*Dispatcher, *metrics.Metrics, *bytes.Buffer) {
	t.Helper()
	registry := NewRegistry()
	registry.Handle("echo", func(_ context.Context, cmd Command) Outcome {
		params, fail, ok := Decode[echoParams](cmd).Unwrap()
		if !ok {
			return result.Failure[any](fail)
		}
		return Reply(Required("value", params.Value, func(v string) result.Result[string, dErrors.Fail] {
			return result.Success[string, dErrors.Fail](v)
		}))
	})
	registry.Handle("reject", func(context.Context, Command) Outcome {
		return result.Failure[any, dErrors.Fail](dErrors.CriteriaAlreadyExist("ocds-b3wdp1-MD-1580458690892"))
	})
	registry.Handle("explode", func(context.Context, Command) Outcome {
		return result.Failure[any](dErrors.FromStore(errors.New("connection refused")))
	})
	registry.Handle("commandID", func(ctx context.Context, _ Command) Outcome {
		return result.Success[any, dErrors.Fail](requestcontext.CommandID(ctx))
	})

	var logs bytes.Buffer
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	opts := []Option{
		WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
		WithMetrics(m),
	}
	if reporter != nil {
		opts = append(opts, WithIncidentReporter(reporter))
	}
	return NewDispatcher(registry, opts...), m, &logs
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	noop := func(context.Context, Command) Outcome { return result.Success[any, dErrors.Fail](nil) }
	r.Handle("b", noop)
	r.Handle("a", noop)

	assert.Equal(t, []Action{"a", "b"}, r.Actions())
	_, ok := r.Lookup("c")
	assert.False(t, ok)
	assert.Panics(t, func() { r.Handle("a", noop) })
}

func TestExecuteRequestErrors(t *testing.T) {
	d, m, _ := newTestDispatcher(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		body string
		code dErrors.Code
	}{
		{"malformed json", `{"id":`, dErrors.CodeRequestParsing},
		{"missing id", `{"version":"1.0.0","action":"echo"}`, dErrors.CodeMissingRequiredAttribute},
		{"missing action", `{"id":"c1","version":"1.0.0"}`, dErrors.CodeMissingRequiredAttribute},
		{"unsupported version", `{"id":"c1","version":"2.0.0","action":"echo"}`, dErrors.CodeUnsupportedVersion},
		{"unknown action", `{"id":"c1","version":"1.0.0","action":"nope"}`, dErrors.CodeUnknownAction},
		{"missing params", `{"id":"c1","version":"1.0.0","action":"echo"}`, dErrors.CodeMissingRequiredAttribute},
		{"params of the wrong shape", `{"id":"c1","version":"1.0.0","action":"echo","params":[1]}`, dErrors.CodeDataTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := d.Execute(ctx, []byte(tt.body))
			require.Equal(t, StatusError, resp.Status)
			assert.Equal(t, http.StatusBadRequest, resp.HTTPStatus())
			details, ok := resp.Result.([]ErrorDetail)
			require.True(t, ok)
			require.Len(t, details, 1)
			assert.Equal(t, tt.code.String(), details[0].Code)
		})
	}

	assert.Equal(t, float64(5), promtest.ToFloat64(m.CommandsTotal.WithLabelValues("unknown", "error")))
	assert.Equal(t, float64(2), promtest.ToFloat64(m.CommandsTotal.WithLabelValues("echo", "error")))
}

func TestExecuteSuccess(t *testing.T) {
	d, m, _ := newTestDispatcher(t, nil)

	resp := d.Execute(context.Background(), []byte(`{"id":"c1","version":"1.0.0","action":"echo","params":{"value":"hi"}}`))
	require.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, http.StatusOK, resp.HTTPStatus())
	assert.Equal(t, "c1", resp.ID)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "hi", resp.Result)
	assert.Equal(t, float64(1), promtest.ToFloat64(m.CommandsTotal.WithLabelValues("echo", "success")))
}

func TestExecuteSetsCommandContext(t *testing.T) {
	d, _, _ := newTestDispatcher(t, nil)
	resp := d.Execute(context.Background(), []byte(`{"id":"cmd-42","version":"1.0.0","action":"commandID"}`))
	require.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, "cmd-42", resp.Result)
}

func TestExecuteDataErrorCarriesAttribute(t *testing.T) {
	d, m, logs := newTestDispatcher(t, nil)

	resp := d.Execute(context.Background(), []byte(`{"id":"c1","version":"1.0.0","action":"echo","params":{}}`))
	require.Equal(t, StatusError, resp.Status)
	details := resp.Result.([]ErrorDetail)
	assert.Equal(t, "DR-1", details[0].Code)
	assert.Equal(t, "value", details[0].Attribute)
	assert.Equal(t, float64(1), promtest.ToFloat64(m.FailuresTotal.WithLabelValues("DR-1", "error")))
	assert.Contains(t, logs.String(), `"level":"WARN"`)
}

func TestExecuteTypeMismatchNamesAttribute(t *testing.T) {
	d, _, _ := newTestDispatcher(t, nil)

	resp := d.Execute(context.Background(), []byte(`{"id":"c1","version":"1.0.0","action":"echo","params":{"value":42}}`))
	require.Equal(t, StatusError, resp.Status)
	details := resp.Result.([]ErrorDetail)
	require.Len(t, details, 1)
	assert.Equal(t, "DR-2", details[0].Code)
	assert.Equal(t, "value", details[0].Attribute)
	assert.Contains(t, details[0].Description, "'string'")
	assert.Contains(t, details[0].Description, "'number'")
}

func TestExecuteValidationError(t *testing.T) {
	d, _, _ := newTestDispatcher(t, nil)

	resp := d.Execute(context.Background(), []byte(`{"id":"c1","version":"1.0.0","action":"reject"}`))
	require.Equal(t, StatusError, resp.Status)
	details := resp.Result.([]ErrorDetail)
	assert.Equal(t, "VR-11.6.1", details[0].Code)
	assert.Empty(t, details[0].Attribute)
}

func TestExecuteIncident(t *testing.T) {
	reporter := &recordingReporter{}
	d, m, logs := newTestDispatcher(t, reporter)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), at)

	resp := d.Execute(ctx, []byte(`{"id":"c1","version":"1.0.0","action":"explode"}`))
	require.Equal(t, StatusIncident, resp.Status)
	assert.Equal(t, http.StatusInternalServerError, resp.HTTPStatus())

	incident, ok := resp.Result.(*IncidentDetails)
	require.True(t, ok)
	assert.NotEmpty(t, incident.ID)
	assert.Equal(t, "2024-03-01T10:00:00Z", incident.Date)
	assert.Equal(t, "error", incident.Level)
	assert.Equal(t, "dossier", incident.Service.Name)
	require.Len(t, incident.Details, 1)
	assert.Equal(t, "INC-1.1", incident.Details[0].Code)

	require.Len(t, reporter.incidents, 1)
	assert.Equal(t, incident.ID, reporter.incidents[0].ID)
	assert.Equal(t, float64(1), promtest.ToFloat64(m.IncidentsTotal.WithLabelValues("error")))
	assert.Equal(t, float64(1), promtest.ToFloat64(m.IncidentsPublished.WithLabelValues("published")))
	assert.Contains(t, logs.String(), `"level":"ERROR"`)
}

func TestExecuteReporterFailureDoesNotChangeResponse(t *testing.T) {
	reporter := &recordingReporter{err: errors.New("broker down")}
	d, m, logs := newTestDispatcher(t, reporter)

	resp := d.Execute(context.Background(), []byte(`{"id":"c1","version":"1.0.0","action":"explode"}`))
	require.Equal(t, StatusIncident, resp.Status)
	assert.Equal(t, float64(1), promtest.ToFloat64(m.IncidentsPublished.WithLabelValues("failed")))
	assert.Contains(t, logs.String(), "INC-3.1")
}
