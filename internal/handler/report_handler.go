package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/client"
	"github.com/TTMS-DilumCA/ttms-reporting/internal/report"
)

// ReportHandler serves generated artifacts as attachment downloads.
type ReportHandler struct {
	svc *report.Service
}

// NewReportHandler wires the handler.
func NewReportHandler(svc *report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// DownloadExcel GET /api/reports/bi/excel
func (h *ReportHandler) DownloadExcel(c *gin.Context) {
	result, err := h.svc.GenerateExcel(c.Request.Context(), c.GetString("token"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.deliver(c, result)
}

// DownloadPDF GET /api/reports/analytics/pdf?year=YYYY
func (h *ReportHandler) DownloadPDF(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2100 {
			BadRequest(c, "invalid year")
			return
		}
		year = parsed
	}
	result, err := h.svc.GeneratePDF(c.Request.Context(), c.GetString("token"), year)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.deliver(c, result)
}

func (h *ReportHandler) deliver(c *gin.Context, result *report.Result) {
	c.Header("Content-Type", result.MIME)
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Data(200, result.MIME, result.Data)
}

// fail applies the single error policy: expired sessions get a 401 so the
// front end redirects to login, everything else a generic failure.
func (h *ReportHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		Unauthorized(c, "Session expired, please log in again")
	case errors.Is(err, report.ErrGenerationInProgress):
		Conflict(c, "A report generation is already in progress")
	default:
		InternalError(c, "Report generation failed: "+err.Error())
	}
}
