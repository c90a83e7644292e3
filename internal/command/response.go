package command

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
)

// Status is the response discriminant.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusError    Status = "error"
	StatusIncident Status = "incident"
)

// Response is the envelope returned for every command.
type Response struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Status  Status `json:"status"`
	Result  any    `json:"result,omitempty"`
}

// HTTPStatus maps the response status onto the transport.
func (r Response) HTTPStatus() int {
	switch r.Status {
	case StatusSuccess:
		return http.StatusOK
	case StatusError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorDetail is the wire form of one failure.
type ErrorDetail struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Attribute   string `json:"attribute,omitempty"`
}

// IncidentDetails is the result body of an incident response and the
// payload published to the incident bus.
type IncidentDetails struct {
	ID      string        `json:"id"`
	Date    string        `json:"date"`
	Level   string        `json:"level"`
	Service ServiceInfo   `json:"service"`
	Details []ErrorDetail `json:"details"`
}

type ServiceInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

func success(id string, version domain.APIVersion, payload any) Response {
	return Response{ID: id, Version: version.String(), Status: StatusSuccess, Result: payload}
}

// renderFail builds the failure response. Each family renders differently.
func renderFail(id string, version domain.APIVersion, fail dErrors.Fail, service ServiceInfo, at time.Time) (Response, *IncidentDetails) {
	detail := ErrorDetail{Code: fail.Code().String(), Description: fail.Description()}
	errorResponse := func(d ErrorDetail) Response {
		return Response{ID: id, Version: version.String(), Status: StatusError, Result: []ErrorDetail{d}}
	}

	var incident *IncidentDetails
	response := dErrors.Match(fail,
		func(*dErrors.RequestError) Response { return errorResponse(detail) },
		func(e *dErrors.DataError) Response {
			d := detail
			d.Attribute = e.Attribute()
			return errorResponse(d)
		},
		func(*dErrors.ValidationError) Response { return errorResponse(detail) },
		func(e *dErrors.Incident) Response {
			incident = &IncidentDetails{
				ID:      uuid.NewString(),
				Date:    domain.FormatDate(at),
				Level:   string(e.Level()),
				Service: service,
				Details: []ErrorDetail{detail},
			}
			return Response{ID: id, Version: version.String(), Status: StatusIncident, Result: incident}
		},
	)
	return response, incident
}
