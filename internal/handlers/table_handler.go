package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesafacil/reservation-api/internal/httperr"
	"github.com/mesafacil/reservation-api/internal/httpresp"
	"github.com/mesafacil/reservation-api/internal/models"
)

type TableHandler struct {
	db *gorm.DB
}

func NewTableHandler(db *gorm.DB) *TableHandler {
	return &TableHandler{db: db}
}

// --------- Requests ---------

type CreateTableRequest struct {
	Number   int    `json:"number" binding:"required,min=1"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
	Location string `json:"location" binding:"required"`
}

type UpdateTableRequest struct {
	Number   *int    `json:"number,omitempty"`
	Capacity *int    `json:"capacity,omitempty"`
	Location *string `json:"location,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// --------- Handlers ---------

func (h *TableHandler) Create(c *gin.Context) {
	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados obrigatórios: number, capacity e location.")
		return
	}

	var count int64
	h.db.Model(&models.Table{}).Where("number = ?", req.Number).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "table_number_exists", "Já existe uma mesa com esse número.")
		return
	}

	table := models.Table{
		Number:   req.Number,
		Capacity: req.Capacity,
		Location: strings.TrimSpace(req.Location),
		Status:   "available",
	}

	if err := h.db.Create(&table).Error; err != nil {
		httperr.Internal(c, "failed_to_create_table", "Erro ao registrar a mesa.")
		return
	}

	httpresp.Created(c, table)
}

func (h *TableHandler) List(c *gin.Context) {
	page, limit := paginationParams(c)

	var total int64
	if err := h.db.Model(&models.Table{}).Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_tables", "Erro ao obter as mesas.")
		return
	}

	var tables []models.Table
	if err := h.db.
		Order("number ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&tables).Error; err != nil {
		httperr.Internal(c, "failed_to_list_tables", "Erro ao obter as mesas.")
		return
	}

	httpresp.Page(c, page, limit, total, tables)
}

func (h *TableHandler) Get(c *gin.Context) {
	table, ok := h.findTable(c)
	if !ok {
		return
	}
	httpresp.OK(c, table)
}

func (h *TableHandler) Update(c *gin.Context) {
	table, ok := h.findTable(c)
	if !ok {
		return
	}

	var req UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Number != nil && *req.Number != table.Number {
		var count int64
		h.db.Model(&models.Table{}).Where("number = ?", *req.Number).Count(&count)
		if count > 0 {
			httperr.Conflict(c, "table_number_exists", "Já existe uma mesa com esse número.")
			return
		}
		table.Number = *req.Number
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Location != nil {
		table.Location = strings.TrimSpace(*req.Location)
	}
	if req.Status != nil {
		table.Status = *req.Status
	}

	if err := h.db.Save(table).Error; err != nil {
		httperr.Internal(c, "failed_to_update_table", "Erro ao atualizar a mesa.")
		return
	}

	httpresp.OK(c, table)
}

func (h *TableHandler) Delete(c *gin.Context) {
	table, ok := h.findTable(c)
	if !ok {
		return
	}

	if err := h.db.Delete(table).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_table", "Erro ao excluir a mesa.")
		return
	}

	httpresp.OK(c, gin.H{"id": table.ID})
}

// --------- Helpers ---------

func (h *TableHandler) findTable(c *gin.Context) (*models.Table, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return nil, false
	}

	var table models.Table
	if err := h.db.First(&table, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "table_not_found", "Mesa não encontrada.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_table", "Erro ao obter a mesa.")
		return nil, false
	}

	return &table, true
}

func paginationParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	return page, limit
}
