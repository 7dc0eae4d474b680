package employee

import (
	"encoding/json"
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
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

// List serves GET /employees. filters arrives as a JSON-encoded array of
// {attribute, operation, value}; a malformed filters value is ignored and
// the unfiltered set returned, consistent with the permissive filter
// contract.
func (h *Handler) List(c *gin.Context) {
	page := queryInt(c, "page", defaultPage)
	pageSize := queryInt(c, "pageSize", defaultPageSize)

	var conditions []FilterCondition
	if raw := c.Query("filters"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &conditions); err != nil {
			h.logger.Warn("ignoring malformed filters parameter", zap.Error(err))
			conditions = nil
		}
	}

	resp, err := h.service.List(c.Request.Context(), page, pageSize, conditions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create employee validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	result := h.service.Create(c.Request.Context(), req)
	status := http.StatusCreated
	if !result.Success {
		status = apperror.ToHTTP(result.Err).Status
	}
	c.JSON(status, result)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update employee validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	result := h.service.Update(c.Request.Context(), c.Param("id"), req)
	status := http.StatusOK
	if !result.Success {
		status = apperror.ToHTTP(result.Err).Status
	}
	c.JSON(status, result)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("employee lookup failed",
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
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
