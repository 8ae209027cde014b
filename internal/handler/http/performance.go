package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/performance"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
)

type PerformanceHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListCompany(w http.ResponseWriter, r *http.Request)
}

type PerformanceHandlerImpl struct {
	performanceService performance.PerformanceService
}

func NewPerformanceHandler(performanceService performance.PerformanceService) PerformanceHandler {
	return &PerformanceHandlerImpl{
		performanceService: performanceService,
	}
}

// Submit implements PerformanceHandler.
func (p *PerformanceHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	var req performance.SubmitReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := p.performanceService.Submit(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Review submitted", result)
}

// ListMine implements PerformanceHandler.
func (p *PerformanceHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	result, err := p.performanceService.ListMine(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result))})
}

// ListCompany implements PerformanceHandler.
func (p *PerformanceHandlerImpl) ListCompany(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	result, err := p.performanceService.ListCompany(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result))})
}
