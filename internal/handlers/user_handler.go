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

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// --------- Requests ---------

type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// --------- Handlers ---------

func (h *UserHandler) List(c *gin.Context) {
	page, limit := paginationParams(c)

	var total int64
	if err := h.db.Model(&models.User{}).Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Erro ao obter usuários.")
		return
	}

	var users []models.User
	if err := h.db.
		Order("id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Erro ao obter usuários.")
		return
	}

	httpresp.Page(c, page, limit, total, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}
	httpresp.OK(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			var count int64
			h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
			if count > 0 {
				httperr.Conflict(c, "email_already_exists", "E-mail já cadastrado.")
				return
			}
			user.Email = email
		}
	}

	if err := h.db.Save(user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Erro ao atualizar usuário.")
		return
	}

	httpresp.OK(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}

	if err := h.db.Delete(user).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_user", "Erro ao excluir usuário.")
		return
	}

	httpresp.OK(c, gin.H{"id": user.ID})
}

// --------- Helpers ---------

func (h *UserHandler) findUser(c *gin.Context) (*models.User, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return nil, false
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_user", "Erro ao obter usuário.")
		return nil, false
	}

	return &user, true
}
