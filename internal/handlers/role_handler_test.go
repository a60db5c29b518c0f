package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mesafacil/reservation-api/internal/audit"
	"github.com/mesafacil/reservation-api/internal/middleware"
	"github.com/mesafacil/reservation-api/internal/models"
)

var handlerDBSeq int

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	handlerDBSeq++
	dsn := fmt.Sprintf("file:handlers_%d?mode=memory&cache=shared", handlerDBSeq)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Table{},
		&models.Reservation{},
		&models.ReservationTable{},
		&models.AuditLog{},
	))

	return db
}

// stubAuth injeta uma identidade já autenticada, dispensando JWT nos testes.
func stubAuth(userID uint, role string, perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserRole, role)
		c.Set(middleware.ContextUserEmail, "admin@mesa.local")
		c.Set(middleware.ContextUserPerms, perms)
		c.Next()
	}
}

func newRoleRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewRoleHandler(db, audit.NewDispatcher(audit.New(db)))

	r := gin.New()
	r.Use(stubAuth(1, "admin"))

	r.POST("/roles", h.Create)
	r.GET("/roles", h.List)
	r.POST("/roles/assign", h.AssignToUser)
	r.GET("/roles/:id", h.Get)
	r.PATCH("/roles/:id", h.Update)
	r.DELETE("/roles/:id", h.Delete)
	r.PATCH("/roles/:id/status", h.ToggleStatus)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedRole(t *testing.T, db *gorm.DB, name string, level int, active bool) *models.Role {
	t.Helper()

	role := &models.Role{
		Name:           name,
		Permissions:    []string{},
		IsActive:       active,
		HierarchyLevel: level,
	}
	require.NoError(t, db.Create(role).Error)
	return role
}

// ------------------------------------------------------
// Cenários
// ------------------------------------------------------

func TestRoleCreateRejectsDuplicates(t *testing.T) {
	db := setupHandlerDB(t)
	r := newRoleRouter(db)

	w := doJSON(t, r, http.MethodPost, "/roles", gin.H{
		"name":            "Gerente",
		"hierarchy_level": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// o nome é normalizado para minúsculas
	var created models.Role
	require.NoError(t, db.Where("hierarchy_level = ?", 4).First(&created).Error)
	assert.Equal(t, "gerente", created.Name)

	// mesmo nome, outro nível
	w = doJSON(t, r, http.MethodPost, "/roles", gin.H{
		"name":            "GERENTE",
		"hierarchy_level": 5,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "role_name_exists")

	// outro nome, mesmo nível
	w = doJSON(t, r, http.MethodPost, "/roles", gin.H{
		"name":            "supervisor",
		"hierarchy_level": 4,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "hierarchy_level_exists")
}

func TestRoleListSortedByHierarchyDesc(t *testing.T) {
	db := setupHandlerDB(t)
	seedRole(t, db, "guest", 1, true)
	seedRole(t, db, "admin", 5, true)
	seedRole(t, db, "employee", 3, false)
	r := newRoleRouter(db)

	w := doJSON(t, r, http.MethodGet, "/roles", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total int64         `json:"total"`
		Data  []models.Role `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, []string{"admin", "employee", "guest"}, []string{
		resp.Data[0].Name, resp.Data[1].Name, resp.Data[2].Name,
	})

	// sem escritas no meio, a mesma consulta devolve a mesma ordem
	again := doJSON(t, r, http.MethodGet, "/roles", nil)
	assert.Equal(t, w.Body.String(), again.Body.String())

	// filtro por status
	w = doJSON(t, r, http.MethodGet, "/roles?is_active=false", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "employee", resp.Data[0].Name)
}

func TestRoleAssignToUser(t *testing.T) {
	db := setupHandlerDB(t)
	role := seedRole(t, db, "manager", 4, true)
	role.Permissions = []string{"table:create", "table:update"}
	require.NoError(t, db.Save(role).Error)

	inactive := seedRole(t, db, "frozen", 2, false)

	user := &models.User{Name: "Ana", Email: "ana@mesa.local", Role: "guest"}
	require.NoError(t, db.Create(user).Error)

	r := newRoleRouter(db)

	// papel ativo copia as permissões para o usuário
	w := doJSON(t, r, http.MethodPost, "/roles/assign", gin.H{
		"user_id": user.ID,
		"role_id": role.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "manager", stored.Role)
	assert.Equal(t, []string{"table:create", "table:update"}, []string(stored.Permissions))

	// papel inativo não pode ser atribuído
	w = doJSON(t, r, http.MethodPost, "/roles/assign", gin.H{
		"user_id": user.ID,
		"role_id": inactive.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "role_inactive")

	// usuário inexistente
	w = doJSON(t, r, http.MethodPost, "/roles/assign", gin.H{
		"user_id": 999,
		"role_id": role.ID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoleDeleteGuardedByUsers(t *testing.T) {
	db := setupHandlerDB(t)
	role := seedRole(t, db, "waiter", 2, true)

	user := &models.User{Name: "Bia", Email: "bia@mesa.local", Role: "waiter"}
	require.NoError(t, db.Create(user).Error)

	r := newRoleRouter(db)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/roles/%d", role.ID), nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "role_in_use")
	assert.Contains(t, w.Body.String(), "users_count")

	// sem usuários o papel sai
	require.NoError(t, db.Delete(user).Error)
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/roles/%d", role.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Role{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRoleCreatedInactivePersistsInactive(t *testing.T) {
	db := setupHandlerDB(t)
	r := newRoleRouter(db)

	w := doJSON(t, r, http.MethodPost, "/roles", gin.H{
		"name":            "frozen",
		"hierarchy_level": 9,
		"is_active":       false,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// o false explícito sobrevive ao insert
	var stored models.Role
	require.NoError(t, db.Where("name = ?", "frozen").First(&stored).Error)
	assert.False(t, stored.IsActive)

	// e o papel recém-criado inativo já é recusado na atribuição
	user := &models.User{Name: "Eva", Email: "eva@mesa.local", Role: "guest"}
	require.NoError(t, db.Create(user).Error)

	w = doJSON(t, r, http.MethodPost, "/roles/assign", gin.H{
		"user_id": user.ID,
		"role_id": stored.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "role_inactive")
}

func TestRoleDuplicateIndexMapsToConflict(t *testing.T) {
	db := setupHandlerDB(t)
	seedRole(t, db, "gerente", 4, true)

	h := NewRoleHandler(db, audit.NewDispatcher(audit.New(db)))

	// nome repetido: o índice único dispara mesmo sem pré-checagem
	err := db.Create(&models.Role{
		Name:           "gerente",
		Permissions:    []string{},
		HierarchyLevel: 6,
	}).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
	assert.Equal(t, "role_name_exists", h.roleConflictCode("gerente", 0))

	// nível repetido com nome livre
	err = db.Create(&models.Role{
		Name:           "outro",
		Permissions:    []string{},
		HierarchyLevel: 4,
	}).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
	assert.Equal(t, "hierarchy_level_exists", h.roleConflictCode("outro", 0))
}

func TestRoleUpdateAndToggle(t *testing.T) {
	db := setupHandlerDB(t)
	role := seedRole(t, db, "host", 2, true)
	seedRole(t, db, "admin", 5, true)
	r := newRoleRouter(db)

	// mudar o nível para um já ocupado conflita
	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/roles/%d", role.ID), gin.H{
		"hierarchy_level": 5,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// manter o próprio nível não conflita
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/roles/%d", role.ID), gin.H{
		"description":     "recepção",
		"hierarchy_level": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/roles/%d/status", role.ID), gin.H{
		"is_active": false,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Role
	require.NoError(t, db.First(&stored, role.ID).Error)
	assert.False(t, stored.IsActive)
	assert.Equal(t, "recepção", stored.Description)
	assert.Equal(t, "admin@mesa.local", stored.UpdatedBy)
}
