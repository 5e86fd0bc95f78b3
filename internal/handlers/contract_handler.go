package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/azizjun/kvartal-api/internal/middleware"
	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/repository"
	"github.com/azizjun/kvartal-api/internal/services"
)

type ContractHandler struct {
	contractService *services.ContractService
	exportService   *services.ExportService
	reportService   *services.ReportService
}

func NewContractHandler(contractService *services.ContractService, exportService *services.ExportService, reportService *services.ReportService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		exportService:   exportService,
		reportService:   reportService,
	}
}

func parseContractQuery(c *gin.Context) *repository.ContractQuery {
	query := &repository.ContractQuery{ListQuery: parseListQuery(c)}
	query.Status = c.Query("status")
	clientID, _ := strconv.ParseUint(c.Query("client_id"), 10, 32)
	apartmentID, _ := strconv.ParseUint(c.Query("apartment_id"), 10, 32)
	complexID, _ := strconv.ParseUint(c.Query("complex_id"), 10, 32)
	query.ClientID = uint(clientID)
	query.ApartmentID = uint(apartmentID)
	query.ComplexID = uint(complexID)
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			query.DateTo = &end
		}
	}
	return query
}

// @Summary List Contracts
// @Tags Contracts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param status query string false "Filter by status"
// @Param client_id query int false "Filter by client"
// @Param complex_id query int false "Filter by complex"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contracts [get]
func (h *ContractHandler) Index(c *gin.Context) {
	query := parseContractQuery(c)

	contracts, total, err := h.contractService.List(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]models.ContractResponse, 0, len(contracts))
	for _, contract := range contracts {
		responses = append(responses, contract.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts":  responses,
		"pagination": paginationResponse(query.ListQuery, total),
	})
}

// @Summary Get Contract Stats
// @Tags Contracts
// @Produce json
// @Success 200 {object} repository.ContractStats
// @Security BearerAuth
// @Router /contracts/stats [get]
func (h *ContractHandler) GetStats(c *gin.Context) {
	stats, err := h.contractService.GetStats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Get Contract
// @Description Get a contract with client, apartment and payments
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id} [get]
func (h *ContractHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.FindByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

type CreateContractRequest struct {
	ContractNumber string  `json:"contract_number"`
	ClientID       uint    `json:"client_id" binding:"required"`
	ApartmentID    uint    `json:"apartment_id" binding:"required"`
	TotalAmount    float64 `json:"total_amount"`
	InitialPayment float64 `json:"initial_payment"`
	MonthlyPayment float64 `json:"monthly_payment"`
	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date"`
	Status         string  `json:"status" binding:"omitempty,oneof=pending active completed cancelled"`
	Note           *string `json:"note"`
}

// @Summary Create Contract
// @Description Sells an apartment to a client; fails with 409 when the apartment is taken
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body CreateContractRequest true "Contract Data"
// @Success 201 {object} models.ContractResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /contracts [post]
func (h *ContractHandler) Create(c *gin.Context) {
	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateContractInput{
		ContractNumber: req.ContractNumber,
		ClientID:       req.ClientID,
		ApartmentID:    req.ApartmentID,
		TotalAmount:    req.TotalAmount,
		InitialPayment: req.InitialPayment,
		MonthlyPayment: req.MonthlyPayment,
		Status:         req.Status,
		Note:           req.Note,
	}
	if req.StartDate != "" {
		t, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
			return
		}
		input.StartDate = t
	}
	if req.EndDate != nil {
		t, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		input.EndDate = &t
	}

	contract, err := h.contractService.Create(c.Request.Context(), input, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contract": contract.ToResponse()})
}

type UpdateContractRequest struct {
	ContractNumber *string  `json:"contract_number"`
	ApartmentID    *uint    `json:"apartment_id"`
	TotalAmount    *float64 `json:"total_amount"`
	MonthlyPayment *float64 `json:"monthly_payment"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	Note           *string  `json:"note"`
}

// @Summary Update Contract
// @Description Updates contract terms; the apartment cannot be changed
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param request body UpdateContractRequest true "Contract Data"
// @Success 200 {object} models.ContractResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id} [put]
func (h *ContractHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateContractInput{
		ContractNumber: req.ContractNumber,
		ApartmentID:    req.ApartmentID,
		TotalAmount:    req.TotalAmount,
		MonthlyPayment: req.MonthlyPayment,
		Note:           req.Note,
	}
	if req.StartDate != nil {
		t, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
			return
		}
		input.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		input.EndDate = &t
	}

	contract, err := h.contractService.Update(c.Request.Context(), id, input, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// @Summary Delete Contract
// @Description Deletes a contract, its payments, and releases the apartment
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id} [delete]
func (h *ContractHandler) Destroy(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.contractService.Delete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "contract deleted"})
}

// @Summary Activate Contract
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/activate [post]
func (h *ContractHandler) Activate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.Activate(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// @Summary Complete Contract
// @Description Completes a fully paid contract
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/complete [post]
func (h *ContractHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.Complete(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// @Summary Cancel Contract
// @Description Cancels a contract and releases its apartment
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/cancel [post]
func (h *ContractHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.Cancel(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// @Summary Export Contracts
// @Description Downloads the filtered contract list as XLSX
// @Tags Contracts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /contracts/export [get]
func (h *ContractHandler) Export(c *gin.Context) {
	query := parseContractQuery(c)
	query.PerPage = 0 // full export

	data, filename, err := h.exportService.ExportContractsXLSX(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Contract Statement PDF
// @Description Downloads a payment statement for one contract
// @Tags Contracts
// @Produce application/pdf
// @Param id path int true "Contract ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /contracts/{id}/statement [get]
func (h *ContractHandler) Statement(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.reportService.GenerateContractStatement(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
