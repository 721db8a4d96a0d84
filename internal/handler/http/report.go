package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/report"
	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/response"
)

type ReportHandler interface {
	// Payroll Summary Report
	GetPayrollSummary(w http.ResponseWriter, r *http.Request)

	// Top Earners Report
	GetTopEarners(w http.ResponseWriter, r *http.Request)

	// Department Breakdown Report
	GetByDepartment(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func parsePeriod(w http.ResponseWriter, r *http.Request) (report.PeriodRequest, bool) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return report.PeriodRequest{}, false
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return report.PeriodRequest{}, false
	}

	return report.PeriodRequest{Month: month, Year: year}, true
}

// GetPayrollSummary handles GET /reports/payroll/summary
func (h *reportHandlerImpl) GetPayrollSummary(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	req, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.PayrollSummary(r.Context(), req, caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetTopEarners handles GET /reports/payroll/top-earners
func (h *reportHandlerImpl) GetTopEarners(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	period, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	req := report.TopEarnersRequest{Month: period.Month, Year: period.Year}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			response.BadRequest(w, "invalid limit parameter", nil)
			return
		}
		req.Limit = limit
	}

	result, err := h.reportService.TopEarners(r.Context(), req, caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetByDepartment handles GET /reports/payroll/by-department
func (h *reportHandlerImpl) GetByDepartment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	req, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.ByDepartment(r.Context(), req, caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
