package handler

import (
	"context"

	"dossier/internal/command"
	"dossier/internal/criteria/models"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
)

const (
	ActionCreateCriteria               command.Action = "createCriteria"
	ActionValidateCriteria             command.Action = "validateCriteria"
	ActionGetCriteria                  command.Action = "getCriteria"
	ActionValidateRequirementResponses command.Action = "validateRequirementResponses"
)

// Service defines the criteria operations the handler depends on.
type Service interface {
	CreateCriteria(ctx context.Context, draft models.Draft) result.Result[models.Document, dErrors.Fail]
	ValidateCriteria(ctx context.Context, draft models.Draft) result.Validation[dErrors.Fail]
	GetCriteria(ctx context.Context, cpid domain.Cpid) result.Result[*models.Document, dErrors.Fail]
	ValidateRequirementResponses(ctx context.Context, params models.ResponsesParams) result.Validation[dErrors.Fail]
}

type Handler struct {
	service Service
}

func New(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *command.Registry) {
	r.Handle(ActionCreateCriteria, h.handleCreate)
	r.Handle(ActionValidateCriteria, h.handleValidate)
	r.Handle(ActionGetCriteria, h.handleGet)
	r.Handle(ActionValidateRequirementResponses, h.handleValidateResponses)
}

func decode[Req interface{ toParams() result.Result[P, dErrors.Fail] }, P any](cmd command.Command) result.Result[P, dErrors.Fail] {
	return result.FlatMap(command.Decode[Req](cmd), func(req Req) result.Result[P, dErrors.Fail] {
		return req.toParams()
	})
}

func (h *Handler) handleCreate(ctx context.Context, cmd command.Command) command.Outcome {
	draft, fail, ok := decode[criteriaRequest, models.Draft](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.Reply(result.Map(h.service.CreateCriteria(ctx, draft), toDocumentResponse))
}

func (h *Handler) handleValidate(ctx context.Context, cmd command.Command) command.Outcome {
	draft, fail, ok := decode[criteriaRequest, models.Draft](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.ReplyEmpty(h.service.ValidateCriteria(ctx, draft))
}

// handleGet replies with a null result when no criteria are stored.
func (h *Handler) handleGet(ctx context.Context, cmd command.Command) command.Outcome {
	cpid, fail, ok := decode[getRequest, domain.Cpid](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.Reply(result.Map(h.service.GetCriteria(ctx, cpid), func(doc *models.Document) *documentResponse {
		if doc == nil {
			return nil
		}
		r := toDocumentResponse(*doc)
		return &r
	}))
}

func (h *Handler) handleValidateResponses(ctx context.Context, cmd command.Command) command.Outcome {
	params, fail, ok := decode[responsesRequest, models.ResponsesParams](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.ReplyEmpty(h.service.ValidateRequirementResponses(ctx, params))
}
