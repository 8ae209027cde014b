package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/assistant"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
)

type AssistantHandler interface {
	WellnessTip(w http.ResponseWriter, r *http.Request)
	FeedbackDraft(w http.ResponseWriter, r *http.Request)
	TurnoverReport(w http.ResponseWriter, r *http.Request)
}

type AssistantHandlerImpl struct {
	assistantService assistant.AssistantService
}

func NewAssistantHandler(assistantService assistant.AssistantService) AssistantHandler {
	return &AssistantHandlerImpl{
		assistantService: assistantService,
	}
}

// WellnessTip implements AssistantHandler.
func (a *AssistantHandlerImpl) WellnessTip(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	result, err := a.assistantService.WellnessTip(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// FeedbackDraft implements AssistantHandler.
func (a *AssistantHandlerImpl) FeedbackDraft(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	var req assistant.FeedbackDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := a.assistantService.FeedbackDraft(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// TurnoverReport implements AssistantHandler.
func (a *AssistantHandlerImpl) TurnoverReport(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	result, err := a.assistantService.TurnoverReport(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
