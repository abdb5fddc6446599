package balance

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-timeoff/internal/shared/apperror"
	"go-timeoff/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const queryCacheTTL = 30 * time.Second

type Handler struct {
	ledger Ledger
	rdb    *redis.Client
	logger *zap.Logger
}

func NewHandler(ledger Ledger, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("balance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.handler")
	}
	return &Handler{ledger: ledger, logger: l}
}

func NewHandlerWithRedis(ledger Ledger, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(ledger, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("balance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Query serves the employee's balances. The read path is not part of the
// transactional core, so a short redis cache is fine here.
func (h *Handler) Query(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	employeeID := c.GetString("employee_id")
	if target := c.Query("employee_id"); target != "" {
		employeeID = target
	}
	periodID := c.Query("period_id")

	cacheKey := fmt.Sprintf("balances:%s:%s:%s", companyID, employeeID, periodID)
	if h.rdb != nil {
		if val, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached []BalanceResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				response.Success(c, http.StatusOK, cached, nil)
				return
			}
		}
	}

	resp, err := h.ledger.Query(ctx, companyID, employeeID, periodID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			_ = h.rdb.Set(ctx, cacheKey, payload, queryCacheTTL).Err()
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Initialize provisions a balance ahead of the first submission, seeded from
// the type config's default quota.
func (h *Handler) Initialize(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")

	var req struct {
		EmployeeID        string `json:"employee_id" binding:"required,uuid"`
		LeaveTypeConfigID string `json:"leave_type_config_id" binding:"required,uuid"`
		LeavePeriodID     string `json:"leave_period_id" binding:"omitempty,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input is not valid", err.Error())
		return
	}

	b, err := h.ledger.GetOrInitialize(ctx, companyID, req.EmployeeID, req.LeaveTypeConfigID, req.LeavePeriodID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, mapToResponse(*b), nil)
}
