package handler

import (
	"context"

	"dossier/internal/command"
	"dossier/internal/submission/models"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
)

const (
	ActionCreateSubmission                      command.Action = "createSubmission"
	ActionCheckPresenceCandidateInOneSubmission command.Action = "checkPresenceCandidateInOneSubmission"
	ActionSetStateForSubmission                 command.Action = "setStateForSubmission"
	ActionFinalizeSubmissions                   command.Action = "finalizeSubmissions"
	ActionCheckAccessToSubmission               command.Action = "checkAccessToSubmission"
	ActionCheckSubmissionsMinimumQuantity       command.Action = "checkSubmissionsMinimumQuantity"
	ActionGetSubmissionStateByIds               command.Action = "getSubmissionStateByIds"
)

// Service defines the submission operations the handler depends on.
type Service interface {
	CreateSubmission(ctx context.Context, params models.CreateParams) result.Result[models.Created, dErrors.Fail]
	CheckPresenceCandidateInOneSubmission(ctx context.Context, params models.PresenceParams) result.Validation[dErrors.Fail]
	SetStateForSubmission(ctx context.Context, params models.SetStateParams) result.Result[models.State, dErrors.Fail]
	FinalizeSubmissions(ctx context.Context, params models.FinalizeParams) result.Result[[]models.State, dErrors.Fail]
	CheckAccessToSubmission(ctx context.Context, params models.AccessParams) result.Validation[dErrors.Fail]
	CheckSubmissionsMinimumQuantity(ctx context.Context, params models.MinimumQuantityParams) result.Validation[dErrors.Fail]
	GetSubmissionStateByIds(ctx context.Context, params models.StatesParams) result.Result[[]models.State, dErrors.Fail]
}

type Handler struct {
	service Service
}

func New(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *command.Registry) {
	r.Handle(ActionCreateSubmission, h.handleCreate)
	r.Handle(ActionCheckPresenceCandidateInOneSubmission, h.handleCheckPresence)
	r.Handle(ActionSetStateForSubmission, h.handleSetState)
	r.Handle(ActionFinalizeSubmissions, h.handleFinalize)
	r.Handle(ActionCheckAccessToSubmission, h.handleCheckAccess)
	r.Handle(ActionCheckSubmissionsMinimumQuantity, h.handleMinimumQuantity)
	r.Handle(ActionGetSubmissionStateByIds, h.handleGetStates)
}

// decode runs the shared decode-then-convert prologue of every handler.
func decode[Req interface{ toParams() result.Result[P, dErrors.Fail] }, P any](cmd command.Command) result.Result[P, dErrors.Fail] {
	return result.FlatMap(command.Decode[Req](cmd), func(req Req) result.Result[P, dErrors.Fail] {
		return req.toParams()
	})
}

func (h *Handler) handleCreate(ctx context.Context, cmd command.Command) command.Outcome {
	params, fail, ok := decode[createRequest, models.CreateParams](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.Reply(result.Map(h.service.CreateSubmission(ctx, params), func(c models.Created) createdResponse {
		return createdResponse{
			ID:     c.ID.String(),
			Token:  c.Token.String(),
			Status: c.Status.String(),
			Date:   domain.FormatDate(c.Date),
		}
	}))
}

func (h *Handler) handleCheckPresence(ctx context.Context, cmd command.Command) command.Outcome {
	params, fail, ok := decode[submissionRequest, models.PresenceParams](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.ReplyEmpty(h.service.CheckPresenceCandidateInOneSubmission(ctx, params))
}

func (h *Handler) handleSetState(ctx context.Context, cmd command.Command) command.Outcome {
	params, fail, ok := decode[setStateRequest, models.SetStateParams](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.Reply(result.Map(h.service.SetStateForSubmission(ctx, params), func(st models.State) stateResponse {
		return stateResponse{ID: st.ID.String(), Status: st.Status.String()}
	}))
}

func (h *Handler) handleFinalize(ctx context.Context, cmd command.Command) command.Outcome {
	params, fail, ok := decode[finalizeRequest, models.FinalizeParams](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.Reply(result.Map(h.service.FinalizeSubmissions(ctx, params), toStateResponses))
}

func (h *Handler) handleCheckAccess(ctx context.Context, cmd command.Command) command.Outcome {
	params, fail, ok := decode[accessRequest, models.AccessParams](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.ReplyEmpty(h.service.CheckAccessToSubmission(ctx, params))
}

func (h *Handler) handleMinimumQuantity(ctx context.Context, cmd command.Command) command.Outcome {
	params, fail, ok := decode[minimumQuantityRequest, models.MinimumQuantityParams](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.ReplyEmpty(h.service.CheckSubmissionsMinimumQuantity(ctx, params))
}

func (h *Handler) handleGetStates(ctx context.Context, cmd command.Command) command.Outcome {
	params, fail, ok := decode[statesRequest, models.StatesParams](cmd).Unwrap()
	if !ok {
		return result.Failure[any](fail)
	}
	return command.Reply(result.Map(h.service.GetSubmissionStateByIds(ctx, params), toStateResponses))
}
