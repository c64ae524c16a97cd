package handler

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/entity"
	"github.com/TTMS-DilumCA/ttms-reporting/internal/middleware"
	"github.com/TTMS-DilumCA/ttms-reporting/internal/report"
)

// Response is the common JSON envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Code: 0, Message: "success", Data: data})
}

// Error writes an error envelope; the HTTP status is code/100.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{Code: code, Message: message})
}

// BadRequest writes a 400 envelope.
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized writes a 401 envelope.
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// Conflict writes a 409 envelope.
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// InternalError writes a 500 envelope.
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// NewRouter assembles the serve-mode HTTP surface. Report endpoints are
// manager-only, matching the web app's navigation gating.
func NewRouter(svc *report.Service, jwtSecret string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", func(c *gin.Context) {
		Success(c, gin.H{"status": "ok"})
	})

	reports := NewReportHandler(svc)
	api := r.Group("/api", middleware.JWTAuth(jwtSecret), middleware.RequireRole(entity.RoleManager))
	{
		api.GET("/reports/bi/excel", reports.DownloadExcel)
		api.GET("/reports/analytics/pdf", reports.DownloadPDF)
	}
	return r
}
