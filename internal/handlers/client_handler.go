package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azizjun/kvartal-api/internal/middleware"
	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/services"
)

type ClientHandler struct {
	clientService *services.ClientService
}

func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// @Summary List Clients
// @Tags Clients
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) Index(c *gin.Context) {
	query := parseListQuery(c)

	clients, total, err := h.clientService.List(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.ClientResponse, 0, len(clients))
	for _, client := range clients {
		responses = append(responses, client.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"clients":    responses,
		"pagination": paginationResponse(query, total),
	})
}

// @Summary Get Client
// @Description Get a client with contract history
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} models.ClientResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.FindByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	contracts := make([]models.ContractResponse, 0, len(client.Contracts))
	for _, contract := range client.Contracts {
		contracts = append(contracts, contract.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"client":    client.ToResponse(),
		"contracts": contracts,
	})
}

type ClientRequest struct {
	FullName       string  `json:"full_name" binding:"required"`
	Phone          string  `json:"phone" binding:"required"`
	Email          *string `json:"email"`
	PassportData   *string `json:"passport_data"`
	TelegramChatID *string `json:"telegram_chat_id"`
}

// @Summary Create Client
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body ClientRequest true "Client Data"
// @Success 201 {object} models.ClientResponse
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := &models.Client{
		FullName:       req.FullName,
		Phone:          req.Phone,
		Email:          req.Email,
		PassportData:   req.PassportData,
		TelegramChatID: req.TelegramChatID,
	}

	if err := h.clientService.Create(c.Request.Context(), client, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"client": client.ToResponse()})
}

// @Summary Update Client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param request body ClientRequest true "Client Data"
// @Success 200 {object} models.ClientResponse
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.FindByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client.FullName = req.FullName
	client.Phone = req.Phone
	client.Email = req.Email
	client.PassportData = req.PassportData
	client.TelegramChatID = req.TelegramChatID

	if err := h.clientService.Update(c.Request.Context(), client, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client.ToResponse()})
}

// @Summary Delete Client
// @Description Deletes a client with no contracts
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) Destroy(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "client deleted"})
}
