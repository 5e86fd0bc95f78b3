package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/azizjun/kvartal-api/internal/middleware"
	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/services"
)

type ComplexHandler struct {
	complexService *services.ComplexService
}

func NewComplexHandler(complexService *services.ComplexService) *ComplexHandler {
	return &ComplexHandler{complexService: complexService}
}

// @Summary List Complexes
// @Tags Complexes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /complexes [get]
func (h *ComplexHandler) Index(c *gin.Context) {
	query := parseListQuery(c)

	complexes, total, err := h.complexService.List(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.ComplexResponse, 0, len(complexes))
	for _, complex := range complexes {
		responses = append(responses, complex.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"complexes":  responses,
		"pagination": paginationResponse(query, total),
	})
}

// @Summary Get Complex
// @Description Get a complex with its blocks
// @Tags Complexes
// @Produce json
// @Param id path int true "Complex ID"
// @Success 200 {object} models.ComplexResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /complexes/{id} [get]
func (h *ComplexHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	complex, err := h.complexService.FindByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	blocks := make([]models.BlockResponse, 0, len(complex.Blocks))
	for _, block := range complex.Blocks {
		blocks = append(blocks, block.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"complex": complex.ToResponse(),
		"blocks":  blocks,
	})
}

type ComplexRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// @Summary Create Complex
// @Tags Complexes
// @Accept json
// @Produce json
// @Param request body ComplexRequest true "Complex Data"
// @Success 201 {object} models.ComplexResponse
// @Security BearerAuth
// @Router /complexes [post]
func (h *ComplexHandler) Create(c *gin.Context) {
	var req ComplexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complex := &models.Complex{Name: req.Name, Address: req.Address}
	if err := h.complexService.Create(c.Request.Context(), complex, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"complex": complex.ToResponse()})
}

// @Summary Update Complex
// @Tags Complexes
// @Accept json
// @Produce json
// @Param id path int true "Complex ID"
// @Param request body ComplexRequest true "Complex Data"
// @Success 200 {object} models.ComplexResponse
// @Security BearerAuth
// @Router /complexes/{id} [put]
func (h *ComplexHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	complex, err := h.complexService.FindByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	var req ComplexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complex.Name = req.Name
	complex.Address = req.Address
	if err := h.complexService.Update(c.Request.Context(), complex, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"complex": complex.ToResponse()})
}

// @Summary Delete Complex
// @Description Deletes a complex; its blocks are detached, not removed
// @Tags Complexes
// @Produce json
// @Param id path int true "Complex ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /complexes/{id} [delete]
func (h *ComplexHandler) Destroy(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.complexService.Delete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "complex deleted"})
}

// --- Blocks ---

// @Summary List Blocks
// @Tags Blocks
// @Produce json
// @Param complex_id query int false "Filter by complex"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /blocks [get]
func (h *ComplexHandler) IndexBlocks(c *gin.Context) {
	query := parseListQuery(c)
	complexID, _ := strconv.ParseUint(c.Query("complex_id"), 10, 32)

	blocks, total, err := h.complexService.ListBlocks(c.Request.Context(), uint(complexID), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.BlockResponse, 0, len(blocks))
	for _, block := range blocks {
		responses = append(responses, block.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"blocks":     responses,
		"pagination": paginationResponse(query, total),
	})
}

// @Summary Get Block
// @Description Get a block with its apartments
// @Tags Blocks
// @Produce json
// @Param id path int true "Block ID"
// @Success 200 {object} models.BlockResponse
// @Security BearerAuth
// @Router /blocks/{id} [get]
func (h *ComplexHandler) ShowBlock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	block, err := h.complexService.FindBlock(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	apartments := make([]models.ApartmentResponse, 0, len(block.Apartments))
	for _, apartment := range block.Apartments {
		apartments = append(apartments, apartment.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"block":      block.ToResponse(),
		"apartments": apartments,
	})
}

type BlockRequest struct {
	ComplexID *uint  `json:"complex_id"`
	Name      string `json:"name" binding:"required"`
}

// @Summary Create Block
// @Tags Blocks
// @Accept json
// @Produce json
// @Param request body BlockRequest true "Block Data"
// @Success 201 {object} models.BlockResponse
// @Security BearerAuth
// @Router /blocks [post]
func (h *ComplexHandler) CreateBlock(c *gin.Context) {
	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	block := &models.Block{ComplexID: req.ComplexID, Name: req.Name}
	if err := h.complexService.CreateBlock(c.Request.Context(), block, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"block": block.ToResponse()})
}

// @Summary Update Block
// @Tags Blocks
// @Accept json
// @Produce json
// @Param id path int true "Block ID"
// @Param request body BlockRequest true "Block Data"
// @Success 200 {object} models.BlockResponse
// @Security BearerAuth
// @Router /blocks/{id} [put]
func (h *ComplexHandler) UpdateBlock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	block, err := h.complexService.FindBlock(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	block.Name = req.Name
	if req.ComplexID != nil {
		block.ComplexID = req.ComplexID
	}
	if err := h.complexService.UpdateBlock(c.Request.Context(), block, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"block": block.ToResponse()})
}

// @Summary Delete Block
// @Description Deletes an empty block
// @Tags Blocks
// @Produce json
// @Param id path int true "Block ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /blocks/{id} [delete]
func (h *ComplexHandler) DestroyBlock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.complexService.DeleteBlock(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "block deleted"})
}

type GenerateApartmentsRequest struct {
	Floors            int     `json:"floors" binding:"required,min=1"`
	ApartmentsPerUnit int     `json:"apartments_per_floor" binding:"required,min=1"`
	StartNumber       int     `json:"start_number"`
	Area              float64 `json:"area"`
	Rooms             int     `json:"rooms"`
	Price             float64 `json:"price"`
}

// @Summary Generate Apartments
// @Description Bulk-creates apartments for a block, floor by floor
// @Tags Blocks
// @Accept json
// @Produce json
// @Param id path int true "Block ID"
// @Param request body GenerateApartmentsRequest true "Generation parameters"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /blocks/{id}/generate_apartments [post]
func (h *ComplexHandler) GenerateApartments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req GenerateApartmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	apartments, err := h.complexService.GenerateApartments(c.Request.Context(), id, services.GenerateApartmentsInput{
		Floors:            req.Floors,
		ApartmentsPerUnit: req.ApartmentsPerUnit,
		StartNumber:       req.StartNumber,
		Area:              req.Area,
		Rooms:             req.Rooms,
		Price:             req.Price,
	}, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"created": len(apartments)})
}
