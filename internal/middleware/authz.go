package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesafacil/reservation-api/internal/authz"
	"github.com/mesafacil/reservation-api/internal/httperr"
)

// identityFromContext lê o que o AuthMiddleware depositou. Papel ausente
// ou desconhecido degrada para guest; nunca derruba a request sozinho.
func identityFromContext(c *gin.Context) (uint, string, []string) {
	var userID uint
	if v, ok := c.Get(ContextUserID); ok {
		userID, _ = v.(uint)
	}

	role := c.GetString(ContextUserRole)
	if !authz.IsKnownRole(role) {
		role = authz.RoleGuest
	}

	perms := []string{}
	if v, ok := c.Get(ContextUserPerms); ok {
		if p, ok := v.([]string); ok {
			perms = p
		}
	}

	return userID, role, perms
}

// RequirePermission nega com 403 quando a permissão não está no conjunto
// efetivo. Falha de lookup do Role dinâmico não é erro de autorização: o
// avaliador degrada para o catálogo estático.
func RequirePermission(eval *authz.Evaluator, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role, perms := identityFromContext(c)

		if !eval.HasPermission(c.Request.Context(), role, perms, permission) {
			httperr.WriteDetails(c, 403, "permission_denied",
				"Permissão necessária: "+permission,
				gin.H{"required_permission": permission})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAnyPermission exige ao menos uma das permissões listadas.
func RequireAnyPermission(eval *authz.Evaluator, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role, perms := identityFromContext(c)

		if !eval.HasAnyPermission(c.Request.Context(), role, perms, permissions...) {
			httperr.WriteDetails(c, 403, "permission_denied",
				"Nenhuma das permissões necessárias está presente.",
				gin.H{"required_permissions": permissions})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireMinimumRole usa a ordem fixa de papéis (authz.RoleRank), que é
// independente do HierarchyLevel configurável do cadastro de Role.
func RequireMinimumRole(minimumRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role, _ := identityFromContext(c)

		if !authz.AllowMinimumRole(role, minimumRole) {
			httperr.WriteDetails(c, 403, "insufficient_role_level",
				"Papel mínimo necessário: "+minimumRole,
				gin.H{"required_role": minimumRole, "user_role": role})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireOwnershipOrRole permite o dono do recurso (param de rota com o id
// do usuário) ou qualquer um dos papéis listados.
func RequireOwnershipOrRole(ownerParam string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, _ := identityFromContext(c)

		ownerID64, _ := strconv.ParseUint(c.Param(ownerParam), 10, 64)

		if !authz.AllowOwnershipOrRole(role, userID, uint(ownerID64), allowedRoles...) {
			httperr.WriteDetails(c, 403, "access_denied",
				"É preciso ser o dono do recurso ou ter papel suficiente.",
				gin.H{"required_roles": allowedRoles, "user_role": role})
			c.Abort()
			return
		}

		c.Next()
	}
}
