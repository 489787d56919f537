package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/support-router/internal/errs"
	"github.com/psds-microservice/support-router/internal/model"
	"github.com/psds-microservice/support-router/internal/store"
)

// TicketReader: read-only часть сервиса тикетов, нужная HTTP API.
type TicketReader interface {
	Get(ctx context.Context, tenantID int64, ticketID uint64) (*model.Ticket, error)
	ListAssignedTo(ctx context.Context, operatorID string, tenantID int64) ([]model.Ticket, error)
	List(ctx context.Context, find *store.FindTicket) ([]model.Ticket, int64, error)
}

type TicketHandler struct {
	svc TicketReader
}

func NewTicketHandler(svc TicketReader) *TicketHandler {
	return &TicketHandler{svc: svc}
}

// List: GET /api/v1/tenants/:tenant/tickets?status=&customer_id=&limit=&offset=
func (h *TicketHandler) List(c *gin.Context) {
	tenantID, ok := tenantParam(c)
	if !ok {
		return
	}
	find := &store.FindTicket{TenantID: &tenantID}
	if v := c.Query("status"); v != "" {
		status := model.TicketStatus(v)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		find.Status = &status
	}
	if v := c.Query("customer_id"); v != "" {
		find.CustomerID = &v
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			find.Limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			find.Offset = parsed
		}
	}

	items, total, err := h.svc.List(c.Request.Context(), find)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tickets": items,
		"total":   total,
	})
}

// ListAssigned: GET /api/v1/tenants/:tenant/operators/:operator/tickets
func (h *TicketHandler) ListAssigned(c *gin.Context) {
	tenantID, ok := tenantParam(c)
	if !ok {
		return
	}
	items, err := h.svc.ListAssignedTo(c.Request.Context(), c.Param("operator"), tenantID)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tickets": items,
		"total":   len(items),
	})
}

// Get: GET /api/v1/tenants/:tenant/tickets/:id
func (h *TicketHandler) Get(c *gin.Context) {
	tenantID, ok := tenantParam(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	t, err := h.svc.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func tenantParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("tenant"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant"})
		return 0, false
	}
	return id, true
}

func mapError(c *gin.Context, err error) {
	msg, _ := errs.UserMessage(err)
	switch errs.KindOf(err) {
	case errs.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	case errs.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": msg})
	case errs.KindAuthorization:
		c.JSON(http.StatusForbidden, gin.H{"error": msg})
	case errs.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
