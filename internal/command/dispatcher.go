package command

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"dossier/internal/platform/metrics"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/jsonx"
	"dossier/pkg/requestcontext"
)

const tracerName = "dossier/internal/command"

// IncidentReporter publishes incidents to operators. Publishing is best
// effort and never changes the response.
type IncidentReporter interface {
	Report(ctx context.Context, incident IncidentDetails) error
}

type envelope struct {
	ID      *string          `json:"id"`
	Version *string          `json:"version"`
	Action  *string          `json:"action"`
	Params  jsonx.RawMessage `json:"params"`
}

// Dispatcher executes command envelopes against a Registry.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
	metrics  *metrics.Metrics
	reporter IncidentReporter
	tracer   trace.Tracer
	service  ServiceInfo
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithIncidentReporter(r IncidentReporter) Option {
	return func(d *Dispatcher) {
		d.reporter = r
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = t
	}
}

func WithServiceInfo(info ServiceInfo) Option {
	return func(d *Dispatcher) {
		d.service = info
	}
}

func NewDispatcher(registry *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		service:  ServiceInfo{ID: "19", Name: "dossier", Version: "1.0.0"},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Execute runs one raw envelope and always returns a response.
func (d *Dispatcher) Execute(ctx context.Context, body []byte) Response {
	start := time.Now()

	var env envelope
	if err := jsonx.Unmarshal(body, &env); err != nil {
		return d.fail(ctx, "", domain.APIVersionV1, "", dErrors.RequestParsing(err))
	}
	id := deref(env.ID)
	if env.ID == nil {
		return d.fail(ctx, id, domain.APIVersionV1, "", dErrors.MissingRequiredAttribute("id"))
	}
	if env.Action == nil {
		return d.fail(ctx, id, domain.APIVersionV1, "", dErrors.MissingRequiredAttribute("action"))
	}
	action := Action(*env.Action)

	version, fail, ok := domain.ParseAPIVersion(deref(env.Version)).Unwrap()
	if !ok {
		return d.fail(ctx, id, domain.APIVersionV1, "", fail)
	}

	// Unregistered actions are counted as "unknown" to keep label cardinality bounded.
	handler, found := d.registry.Lookup(action)
	if !found {
		return d.fail(ctx, id, version, "", dErrors.UnknownAction(action.String()))
	}

	ctx = requestcontext.WithCommandID(ctx, id)
	ctx = requestcontext.WithAction(ctx, action.String())
	ctx, span := d.tracer.Start(ctx, "command "+action.String(),
		trace.WithAttributes(
			attribute.String("command.id", id),
			attribute.String("command.action", action.String()),
			attribute.String("command.version", version.String()),
		),
	)
	defer span.End()
	if d.metrics != nil {
		defer d.metrics.ObserveCommand(action.String(), start)
	}

	payload, fail, ok := handler(ctx, Command{ID: id, Version: version, Action: action, Params: env.Params}).Unwrap()
	if !ok {
		span.SetStatus(codes.Error, fail.Code().String())
		span.SetAttributes(attribute.String("failure.code", fail.Code().String()))
		return d.fail(ctx, id, version, action, fail)
	}

	span.SetStatus(codes.Ok, "")
	d.count(action, StatusSuccess)
	return success(id, version, payload)
}

// fail is the single place a failure is logged, counted and reported.
func (d *Dispatcher) fail(ctx context.Context, id string, version domain.APIVersion, action Action, fail dErrors.Fail) Response {
	fail.Log(ctx, d.logger.With("command_id", id, "action", action.String()))

	response, incident := renderFail(id, version, fail, d.service, requestcontext.Now(ctx))
	d.count(action, response.Status)
	if d.metrics != nil {
		d.metrics.IncrementFailure(fail.Code().String(), fail.Kind().String())
		if incident != nil {
			d.metrics.IncrementIncident(incident.Level)
		}
	}
	if incident != nil {
		d.report(ctx, *incident)
	}
	return response
}

func (d *Dispatcher) report(ctx context.Context, incident IncidentDetails) {
	if d.reporter == nil {
		return
	}
	if err := d.reporter.Report(ctx, incident); err != nil {
		dErrors.BusUnavailable(err).Log(ctx, d.logger)
		if d.metrics != nil {
			d.metrics.IncrementIncidentPublished("failed")
		}
		return
	}
	if d.metrics != nil {
		d.metrics.IncrementIncidentPublished("published")
	}
}

func (d *Dispatcher) count(action Action, status Status) {
	if d.metrics == nil {
		return
	}
	label := action.String()
	if label == "" {
		label = "unknown"
	}
	d.metrics.IncrementCommand(label, string(status))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
