package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	Process(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{
		payrollService: payrollService,
	}
}

// Process implements PayrollHandler.
func (p *PayrollHandlerImpl) Process(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	var req payroll.ProcessPayrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := p.payrollService.Process(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payroll processed", result)
}

// ListMine implements PayrollHandler.
func (p *PayrollHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	result, err := p.payrollService.ListMine(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result))})
}
