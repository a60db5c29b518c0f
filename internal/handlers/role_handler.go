package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesafacil/reservation-api/internal/audit"
	"github.com/mesafacil/reservation-api/internal/authz"
	"github.com/mesafacil/reservation-api/internal/httperr"
	"github.com/mesafacil/reservation-api/internal/httpresp"
	"github.com/mesafacil/reservation-api/internal/middleware"
	"github.com/mesafacil/reservation-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type RoleHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewRoleHandler(db *gorm.DB, audit *audit.Dispatcher) *RoleHandler {
	return &RoleHandler{db: db, audit: audit}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateRoleRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description"`
	Permissions    []string `json:"permissions"`
	IsActive       *bool    `json:"is_active"`
	HierarchyLevel int      `json:"hierarchy_level" binding:"required"`
}

type UpdateRoleRequest struct {
	Name           *string   `json:"name,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Permissions    *[]string `json:"permissions,omitempty"`
	HierarchyLevel *int      `json:"hierarchy_level,omitempty"`
}

type AssignRoleRequest struct {
	UserID uint `json:"user_id" binding:"required"`
	RoleID uint `json:"role_id" binding:"required"`
}

type ToggleRoleStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ======================================================
// CRUD
// ======================================================

func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	name := strings.ToLower(strings.TrimSpace(req.Name))

	var count int64
	h.db.Model(&models.Role{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "role_name_exists", "Já existe um papel com esse nome.")
		return
	}

	h.db.Model(&models.Role{}).Where("hierarchy_level = ?", req.HierarchyLevel).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "hierarchy_level_exists", "Já existe um papel com esse nível de hierarquia.")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	permissions := req.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	role := models.Role{
		Name:           name,
		Description:    req.Description,
		Permissions:    permissions,
		IsActive:       isActive,
		HierarchyLevel: req.HierarchyLevel,
		CreatedBy:      c.GetString(middleware.ContextUserEmail),
	}

	if err := h.db.Create(&role).Error; err != nil {
		// insert concorrente pode furar a pré-checagem; o índice único
		// ainda segura e continua sendo 409
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			h.writeDuplicateRole(c, role.Name, 0)
			return
		}
		httperr.Internal(c, "failed_to_create_role", "Erro ao criar papel.")
		return
	}

	h.dispatch(c, "role_created", role.ID)
	httpresp.Created(c, role)
}

func (h *RoleHandler) List(c *gin.Context) {
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	isActiveStr := strings.TrimSpace(c.Query("is_active"))
	levelStr := strings.TrimSpace(c.Query("hierarchy_level"))

	page, limit := paginationParams(c)

	q := h.db.Model(&models.Role{})

	if search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if isActiveStr == "true" {
		q = q.Where("is_active = ?", true)
	} else if isActiveStr == "false" {
		q = q.Where("is_active = ?", false)
	}

	if levelStr != "" {
		if level, err := strconv.Atoi(levelStr); err == nil {
			q = q.Where("hierarchy_level = ?", level)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_roles", "Erro ao obter papéis.")
		return
	}

	var roles []models.Role
	if err := q.
		Order("hierarchy_level DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&roles).Error; err != nil {
		httperr.Internal(c, "failed_to_list_roles", "Erro ao obter papéis.")
		return
	}

	httpresp.Page(c, page, limit, total, roles)
}

func (h *RoleHandler) Get(c *gin.Context) {
	role, ok := h.findRole(c)
	if !ok {
		return
	}
	httpresp.OK(c, role)
}

func (h *RoleHandler) Update(c *gin.Context) {
	role, ok := h.findRole(c)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	// Unicidade revalidada apenas quando o campo realmente muda.
	if req.Name != nil {
		name := strings.ToLower(strings.TrimSpace(*req.Name))
		if name != role.Name {
			var count int64
			h.db.Model(&models.Role{}).Where("name = ?", name).Count(&count)
			if count > 0 {
				httperr.Conflict(c, "role_name_exists", "Já existe um papel com esse nome.")
				return
			}
			role.Name = name
		}
	}

	if req.HierarchyLevel != nil && *req.HierarchyLevel != role.HierarchyLevel {
		var count int64
		h.db.Model(&models.Role{}).Where("hierarchy_level = ?", *req.HierarchyLevel).Count(&count)
		if count > 0 {
			httperr.Conflict(c, "hierarchy_level_exists", "Já existe um papel com esse nível de hierarquia.")
			return
		}
		role.HierarchyLevel = *req.HierarchyLevel
	}

	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Permissions != nil {
		role.Permissions = *req.Permissions
	}

	role.UpdatedBy = c.GetString(middleware.ContextUserEmail)

	if err := h.db.Save(role).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			h.writeDuplicateRole(c, role.Name, role.ID)
			return
		}
		httperr.Internal(c, "failed_to_update_role", "Erro ao atualizar papel.")
		return
	}

	h.dispatch(c, "role_updated", role.ID)
	httpresp.OK(c, role)
}

func (h *RoleHandler) Delete(c *gin.Context) {
	role, ok := h.findRole(c)
	if !ok {
		return
	}

	// Papel referenciado por usuários não pode sair; o erro carrega a
	// contagem de afetados.
	var usersCount int64
	h.db.Model(&models.User{}).Where("role = ?", role.Name).Count(&usersCount)
	if usersCount > 0 {
		httperr.WriteDetails(c, 409, "role_in_use",
			"Não é possível excluir: há usuários com esse papel.",
			gin.H{"role_name": role.Name, "users_count": usersCount})
		return
	}

	if err := h.db.Delete(role).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_role", "Erro ao excluir papel.")
		return
	}

	h.dispatch(c, "role_deleted", role.ID)
	httpresp.OK(c, gin.H{"id": role.ID, "name": role.Name})
}

// ======================================================
// ASSIGNMENT / STATUS
// ======================================================

func (h *RoleHandler) AssignToUser(c *gin.Context) {
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var user models.User
	if err := h.db.First(&user, req.UserID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	var role models.Role
	if err := h.db.First(&role, req.RoleID).Error; err != nil {
		httperr.NotFound(c, "role_not_found", "Papel não encontrado.")
		return
	}

	if !role.IsActive {
		httperr.BadRequest(c, "role_inactive", "Não é possível atribuir um papel inativo.")
		return
	}

	user.Role = role.Name
	user.Permissions = role.Permissions

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_assign_role", "Erro ao atribuir papel.")
		return
	}

	h.dispatch(c, "role_assigned", role.ID)
	httpresp.OK(c, gin.H{
		"user_id":     user.ID,
		"user_name":   user.Name,
		"role_name":   role.Name,
		"permissions": role.Permissions,
	})
}

func (h *RoleHandler) UsersByRole(c *gin.Context) {
	role, ok := h.findRole(c)
	if !ok {
		return
	}

	var users []models.User
	if err := h.db.Where("role = ?", role.Name).Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Erro ao obter usuários do papel.")
		return
	}

	httpresp.OK(c, gin.H{
		"role": gin.H{
			"id":          role.ID,
			"name":        role.Name,
			"description": role.Description,
		},
		"users": users,
	})
}

func (h *RoleHandler) ToggleStatus(c *gin.Context) {
	role, ok := h.findRole(c)
	if !ok {
		return
	}

	var req ToggleRoleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "is_active deve ser um booleano.")
		return
	}

	role.IsActive = *req.IsActive
	role.UpdatedBy = c.GetString(middleware.ContextUserEmail)
	role.UpdatedAt = time.Now()

	if err := h.db.Save(role).Error; err != nil {
		httperr.Internal(c, "failed_to_update_role", "Erro ao atualizar papel.")
		return
	}

	h.dispatch(c, "role_status_toggled", role.ID)
	httpresp.OK(c, role)
}

// ListPermissions expõe o catálogo estático completo.
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	httpresp.List(c, authz.Catalog)
}

// ======================================================
// HELPERS
// ======================================================

func (h *RoleHandler) findRole(c *gin.Context) (*models.Role, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return nil, false
	}

	var role models.Role
	if err := h.db.First(&role, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "role_not_found", "Papel não encontrado.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_role", "Erro ao obter papel.")
		return nil, false
	}

	return &role, true
}

// roleConflictCode distingue qual índice único disparou: se outro
// registro já usa o nome, foi o nome; senão só resta o nível.
func (h *RoleHandler) roleConflictCode(name string, selfID uint) string {
	var count int64
	h.db.Model(&models.Role{}).
		Where("name = ? AND id <> ?", name, selfID).
		Count(&count)
	if count > 0 {
		return "role_name_exists"
	}
	return "hierarchy_level_exists"
}

func (h *RoleHandler) writeDuplicateRole(c *gin.Context, name string, selfID uint) {
	if code := h.roleConflictCode(name, selfID); code == "role_name_exists" {
		httperr.Conflict(c, code, "Já existe um papel com esse nome.")
	} else {
		httperr.Conflict(c, code, "Já existe um papel com esse nível de hierarquia.")
	}
}

func (h *RoleHandler) dispatch(c *gin.Context, action string, roleID uint) {
	var actor *uint
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := v.(uint); ok {
			actor = &id
		}
	}

	h.audit.Dispatch(audit.Event{
		UserID:   actor,
		Action:   action,
		Entity:   "role",
		EntityID: &roleID,
	})
}
