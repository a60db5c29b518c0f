package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesafacil/reservation-api/internal/authz"
	"github.com/mesafacil/reservation-api/internal/httperr"
	"github.com/mesafacil/reservation-api/internal/httpresp"
	"github.com/mesafacil/reservation-api/internal/middleware"
	"github.com/mesafacil/reservation-api/internal/models"
)

type MeHandler struct {
	db   *gorm.DB
	eval *authz.Evaluator
}

func NewMeHandler(db *gorm.DB, eval *authz.Evaluator) *MeHandler {
	return &MeHandler{db: db, eval: eval}
}

// GetMe devolve o usuário autenticado com seu conjunto efetivo de
// permissões já resolvido (papel dinâmico ou catálogo estático).
func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	effective := h.eval.EffectivePermissions(
		c.Request.Context(),
		user.Role,
		user.Permissions,
	)

	httpresp.OK(c, gin.H{
		"id":                    user.ID,
		"name":                  user.Name,
		"email":                 user.Email,
		"phone":                 user.Phone,
		"role":                  user.Role,
		"permissions":           user.Permissions,
		"effective_permissions": effective,
	})
}
