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

type TechPassportHandler struct {
	passportService *services.TechPassportService
}

func NewTechPassportHandler(passportService *services.TechPassportService) *TechPassportHandler {
	return &TechPassportHandler{passportService: passportService}
}

// @Summary List Tech Passports
// @Tags TechPassports
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param client_id query int false "Filter by client"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tech_passports [get]
func (h *TechPassportHandler) Index(c *gin.Context) {
	query := &repository.TechPassportQuery{ListQuery: parseListQuery(c)}
	clientID, _ := strconv.ParseUint(c.Query("client_id"), 10, 32)
	query.ClientID = uint(clientID)
	query.Status = c.Query("status")

	passports, total, err := h.passportService.List(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.TechPassportResponse, 0, len(passports))
	for _, passport := range passports {
		responses = append(responses, passport.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"tech_passports": responses,
		"pagination":     paginationResponse(query.ListQuery, total),
	})
}

// @Summary Get Tech Passport
// @Tags TechPassports
// @Produce json
// @Param id path int true "Tech Passport ID"
// @Success 200 {object} models.TechPassportResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tech_passports/{id} [get]
func (h *TechPassportHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	passport, err := h.passportService.FindByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tech_passport": passport.ToResponse()})
}

type CreateTechPassportRequest struct {
	ContractID uint    `json:"contract_id" binding:"required"`
	Notes      *string `json:"notes"`
}

// @Summary Create Tech Passport
// @Description Opens the paperwork workflow for a completed contract
// @Tags TechPassports
// @Accept json
// @Produce json
// @Param request body CreateTechPassportRequest true "Tech Passport Data"
// @Success 201 {object} models.TechPassportResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /tech_passports [post]
func (h *TechPassportHandler) Create(c *gin.Context) {
	var req CreateTechPassportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passport, err := h.passportService.Create(c.Request.Context(), req.ContractID, req.Notes, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tech_passport": passport.ToResponse()})
}

type UpdateTechPassportRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

// @Summary Update Tech Passport Status
// @Description Moves the passport to another workflow station
// @Tags TechPassports
// @Accept json
// @Produce json
// @Param id path int true "Tech Passport ID"
// @Param request body UpdateTechPassportRequest true "Status Data"
// @Success 200 {object} models.TechPassportResponse
// @Security BearerAuth
// @Router /tech_passports/{id} [put]
func (h *TechPassportHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateTechPassportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passport, err := h.passportService.UpdateStatus(c.Request.Context(), id, req.Status, req.Notes, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tech_passport": passport.ToResponse()})
}

// @Summary Delete Tech Passport
// @Tags TechPassports
// @Produce json
// @Param id path int true "Tech Passport ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /tech_passports/{id} [delete]
func (h *TechPassportHandler) Destroy(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.passportService.Delete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tech passport deleted"})
}
