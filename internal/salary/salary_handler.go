package salary

import (
	"net/http"
	"strconv"

	"employee-records/internal/shared/apperror"
	"employee-records/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("salary.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.handler")
	}
	return &Handler{service: service, logger: l}
}

// List serves GET /salaries. month and year come as query params; when
// both are present the listing reconstructs that month's salary state.
func (h *Handler) List(c *gin.Context) {
	month := queryInt(c, "month", 0)
	year := queryInt(c, "year", 0)
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", defaultPageSize)

	resp, err := h.service.ListWithEmployees(c.Request.Context(), month, year, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Replace serves PUT /employees/:id/salary.
func (h *Handler) Replace(c *gin.Context) {
	var req UpdateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http salary update validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	result := h.service.ReplaceWithCompensations(c.Request.Context(), c.Param("id"), req)
	status := http.StatusOK
	if !result.Success {
		status = apperror.ToHTTP(result.Err).Status
	}
	c.JSON(status, result)
}

// Export serves GET /salaries/export as a CSV attachment.
func (h *Handler) Export(c *gin.Context) {
	month := queryInt(c, "month", 0)
	year := queryInt(c, "year", 0)

	data, filename, err := h.service.ExportCSV(c.Request.Context(), month, year)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("salary export failed",
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
