package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/azizjun/kvartal-api/internal/middleware"
	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/repository"
	"github.com/azizjun/kvartal-api/internal/services"
)

type LayoutHandler struct {
	layoutService *services.LayoutService
}

func NewLayoutHandler(layoutService *services.LayoutService) *LayoutHandler {
	return &LayoutHandler{layoutService: layoutService}
}

// @Summary List Layouts
// @Description Get apartment layout approval records
// @Tags Layouts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param block_id query int false "Filter by block"
// @Param complex_id query int false "Filter by complex"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /layouts [get]
func (h *LayoutHandler) Index(c *gin.Context) {
	query := &repository.LayoutQuery{ListQuery: parseListQuery(c)}
	blockID, _ := strconv.ParseUint(c.Query("block_id"), 10, 32)
	complexID, _ := strconv.ParseUint(c.Query("complex_id"), 10, 32)
	query.BlockID = uint(blockID)
	query.ComplexID = uint(complexID)
	query.Status = c.Query("status")

	layouts, total, err := h.layoutService.List(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.LayoutResponse, 0, len(layouts))
	for _, layout := range layouts {
		responses = append(responses, layout.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"layouts":    responses,
		"pagination": paginationResponse(query.ListQuery, total),
	})
}

// @Summary Get Apartment Layout
// @Description Get the layout record for an apartment, creating it when missing
// @Tags Layouts
// @Produce json
// @Param id path int true "Apartment ID"
// @Success 200 {object} models.LayoutResponse
// @Security BearerAuth
// @Router /apartments/{id}/layout [get]
func (h *LayoutHandler) ShowForApartment(c *gin.Context) {
	apartmentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	layout, err := h.layoutService.GetOrCreateForApartment(c.Request.Context(), apartmentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"layout": layout.ToResponse()})
}

type ApprovalRequest struct {
	BrickWorkApproved *bool   `json:"brick_work_approved"`
	BrickWorkNotes    *string `json:"brick_work_notes"`
	PlumbingApproved  *bool   `json:"plumbing_approved"`
	PlumbingNotes     *string `json:"plumbing_notes"`
	Status            *string `json:"status"`
}

// @Summary Update Layout Approval
// @Description Toggles approval gates and notes; repeated identical updates are no-ops
// @Tags Layouts
// @Accept json
// @Produce json
// @Param id path int true "Apartment ID"
// @Param request body ApprovalRequest true "Approval Data"
// @Success 200 {object} models.LayoutResponse
// @Security BearerAuth
// @Router /apartments/{id}/layout [put]
func (h *LayoutHandler) UpdateApproval(c *gin.Context) {
	apartmentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	layout, err := h.layoutService.UpdateApproval(c.Request.Context(), apartmentID, services.ApprovalInput{
		BrickWorkApproved: req.BrickWorkApproved,
		BrickWorkNotes:    req.BrickWorkNotes,
		PlumbingApproved:  req.PlumbingApproved,
		PlumbingNotes:     req.PlumbingNotes,
		Status:            req.Status,
	}, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"layout": layout.ToResponse()})
}
