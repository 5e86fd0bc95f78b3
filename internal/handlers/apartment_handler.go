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

type ApartmentHandler struct {
	apartmentService *services.ApartmentService
	layoutService    *services.LayoutService
}

func NewApartmentHandler(apartmentService *services.ApartmentService, layoutService *services.LayoutService) *ApartmentHandler {
	return &ApartmentHandler{
		apartmentService: apartmentService,
		layoutService:    layoutService,
	}
}

// @Summary List Apartments
// @Tags Apartments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param block_id query int false "Filter by block"
// @Param complex_id query int false "Filter by complex"
// @Param status query string false "Filter by status"
// @Param min_rooms query int false "Minimum rooms"
// @Param max_price query number false "Maximum price"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /apartments [get]
func (h *ApartmentHandler) Index(c *gin.Context) {
	query := &repository.ApartmentQuery{ListQuery: parseListQuery(c)}
	blockID, _ := strconv.ParseUint(c.Query("block_id"), 10, 32)
	complexID, _ := strconv.ParseUint(c.Query("complex_id"), 10, 32)
	query.BlockID = uint(blockID)
	query.ComplexID = uint(complexID)
	query.Status = c.Query("status")
	query.MinRooms, _ = strconv.Atoi(c.Query("min_rooms"))
	query.MaxPrice, _ = strconv.ParseFloat(c.Query("max_price"), 64)

	apartments, total, err := h.apartmentService.List(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.ApartmentResponse, 0, len(apartments))
	for _, apartment := range apartments {
		responses = append(responses, apartment.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"apartments": responses,
		"pagination": paginationResponse(query.ListQuery, total),
	})
}

// @Summary Get Apartment
// @Description Get an apartment with its block, complex and layout
// @Tags Apartments
// @Produce json
// @Param id path int true "Apartment ID"
// @Success 200 {object} models.ApartmentResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /apartments/{id} [get]
func (h *ApartmentHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	apartment, err := h.apartmentService.FindByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := gin.H{"apartment": apartment.ToResponse()}
	if apartment.Layout != nil {
		resp["layout"] = apartment.Layout.ToResponse()
	}

	c.JSON(http.StatusOK, resp)
}

type CreateApartmentRequest struct {
	BlockID         uint    `json:"block_id" binding:"required"`
	ApartmentNumber string  `json:"apartment_number" binding:"required"`
	Floor           int     `json:"floor" binding:"required,min=1"`
	Area            float64 `json:"area"`
	Rooms           int     `json:"rooms"`
	Price           float64 `json:"price"`
}

// @Summary Create Apartment
// @Tags Apartments
// @Accept json
// @Produce json
// @Param request body CreateApartmentRequest true "Apartment Data"
// @Success 201 {object} models.ApartmentResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /apartments [post]
func (h *ApartmentHandler) Create(c *gin.Context) {
	var req CreateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	apartment := &models.Apartment{
		BlockID:         req.BlockID,
		ApartmentNumber: req.ApartmentNumber,
		Floor:           req.Floor,
		Area:            req.Area,
		Rooms:           req.Rooms,
		Price:           req.Price,
		Status:          models.ApartmentStatusAvailable,
	}

	if err := h.apartmentService.Create(c.Request.Context(), apartment, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"apartment": apartment.ToResponse()})
}

type UpdateApartmentRequest struct {
	ApartmentNumber *string  `json:"apartment_number"`
	Floor           *int     `json:"floor"`
	Area            *float64 `json:"area"`
	Rooms           *int     `json:"rooms"`
	Price           *float64 `json:"price"`
}

// @Summary Update Apartment
// @Description Updates apartment attributes; status changes go through reserve/release or contracts
// @Tags Apartments
// @Accept json
// @Produce json
// @Param id path int true "Apartment ID"
// @Param request body UpdateApartmentRequest true "Apartment Data"
// @Success 200 {object} models.ApartmentResponse
// @Security BearerAuth
// @Router /apartments/{id} [put]
func (h *ApartmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	apartment, err := h.apartmentService.Update(c.Request.Context(), id, services.UpdateApartmentInput{
		ApartmentNumber: req.ApartmentNumber,
		Floor:           req.Floor,
		Area:            req.Area,
		Rooms:           req.Rooms,
		Price:           req.Price,
	}, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"apartment": apartment.ToResponse()})
}

// @Summary Reserve Apartment
// @Description Puts an available apartment on hold
// @Tags Apartments
// @Produce json
// @Param id path int true "Apartment ID"
// @Success 200 {object} models.ApartmentResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /apartments/{id}/reserve [post]
func (h *ApartmentHandler) Reserve(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	apartment, err := h.apartmentService.Reserve(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"apartment": apartment.ToResponse()})
}

// @Summary Release Apartment
// @Description Returns a reserved apartment to the available pool
// @Tags Apartments
// @Produce json
// @Param id path int true "Apartment ID"
// @Success 200 {object} models.ApartmentResponse
// @Security BearerAuth
// @Router /apartments/{id}/release [post]
func (h *ApartmentHandler) Release(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	apartment, err := h.apartmentService.Release(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"apartment": apartment.ToResponse()})
}

// @Summary Delete Apartment
// @Description Deletes an apartment with no contracts
// @Tags Apartments
// @Produce json
// @Param id path int true "Apartment ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /apartments/{id} [delete]
func (h *ApartmentHandler) Destroy(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.apartmentService.Delete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "apartment deleted"})
}
