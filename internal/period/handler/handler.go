package handler

import (
	"context"

	"dossier/internal/command"
	"dossier/internal/period/models"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
)

const (
	ActionValidatePeriod            command.Action = "validatePeriod"
	ActionCheckPeriod               command.Action = "checkPeriod"
	ActionSavePeriod                command.Action = "savePeriod"
	ActionVerifySubmissionPeriodEnd command.Action = "verifySubmissionPeriodEnd"
)

// Service defines the period operations the handler depends on.
type Service interface {
	ValidatePeriod(ctx context.Context, params models.ValidateParams) result.Validation[dErrors.Fail]
	CheckPeriod(ctx context.Context, params models.CheckParams) result.Result[models.CheckResult, dErrors.Fail]
	SavePeriod(ctx context.Context, params models.SaveParams) result.Validation[dErrors.Fail]
	VerifySubmissionPeriodEnd(ctx context.Context, params models.VerifyParams) result.Result[bool, dErrors.Fail]
}

type Handler struct {
	service Service
}

func New(service Service) *Handler {
	return &Handler{service: service}
}

// Register binds the period actions.
func (h *Handler) Register(r *command.Registry) {
	r.Handle(ActionValidatePeriod, h.handleValidatePeriod)
	r.Handle(ActionCheckPeriod, h.handleCheckPeriod)
	r.Handle(ActionSavePeriod, h.handleSavePeriod)
	r.Handle(ActionVerifySubmissionPeriodEnd, h.handleVerifySubmissionPeriodEnd)
}

func (h *Handler) handleValidatePeriod(ctx context.Context, cmd command.Command) command.Outcome {
	req, fail, ok := command.Decode[validatePeriodRequest](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	params, fail, ok := req.toParams().Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.ReplyEmpty(h.service.ValidatePeriod(ctx, params))
}

func (h *Handler) handleCheckPeriod(ctx context.Context, cmd command.Command) command.Outcome {
	req, fail, ok := command.Decode[checkPeriodRequest](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	params, fail, ok := req.toParams().Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.Reply(result.Map(h.service.CheckPeriod(ctx, params), func(r models.CheckResult) checkPeriodResponse {
		return checkPeriodResponse{
			IsPreviousPeriodChanged: r.IsPreviousPeriodChanged,
			StoredPeriod:            toPeriodResponse(r.StoredPeriod),
			NewPeriod:               toPeriodResponse(r.NewPeriod),
		}
	}))
}

func (h *Handler) handleSavePeriod(ctx context.Context, cmd command.Command) command.Outcome {
	req, fail, ok := command.Decode[savePeriodRequest](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	params, fail, ok := req.toParams().Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.ReplyEmpty(h.service.SavePeriod(ctx, params))
}

func (h *Handler) handleVerifySubmissionPeriodEnd(ctx context.Context, cmd command.Command) command.Outcome {
	req, fail, ok := command.Decode[verifyRequest](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	params, fail, ok := req.toParams().Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.Reply(result.Map(h.service.VerifySubmissionPeriodEnd(ctx, params), func(expired bool) verifyResponse {
		return verifyResponse{IsExpired: expired}
	}))
}
