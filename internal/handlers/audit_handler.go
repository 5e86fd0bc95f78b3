package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/azizjun/kvartal-api/internal/repository"
	"github.com/azizjun/kvartal-api/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Get audit log entries, admin only
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param user_id query int false "Filter by user"
// @Param entity query string false "Filter by entity type"
// @Param entity_id query int false "Filter by entity ID"
// @Param action query string false "Filter by action"
// @Param date_from query string false "Filter from date (YYYY-MM-DD)"
// @Param date_to query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audit_logs [get]
func (h *AuditHandler) Index(c *gin.Context) {
	query := &repository.AuditQuery{
		ListQuery: parseListQuery(c),
		Entity:    c.Query("entity"),
		Action:    c.Query("action"),
	}

	if userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64); err == nil {
		query.UserID = uint(userID)
	}
	if entityID, err := strconv.ParseUint(c.Query("entity_id"), 10, 64); err == nil {
		query.EntityID = uint(entityID)
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			query.DateTo = &end
		}
	}

	entries, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audit_logs": entries,
		"pagination": paginationResponse(query.ListQuery, total),
	})
}
