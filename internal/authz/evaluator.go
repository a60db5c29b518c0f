package authz

import (
	"context"

	"github.com/mesafacil/reservation-api/internal/models"
)

// RoleSource busca um Role dinâmico ativo pelo nome. Implementado pelo
// repositório gorm; nos testes, por um stub.
type RoleSource interface {
	FindActiveRoleByName(ctx context.Context, name string) (*models.Role, error)
}

type Evaluator struct {
	roles RoleSource
}

func NewEvaluator(roles RoleSource) *Evaluator {
	return &Evaluator{roles: roles}
}

// EffectivePermissions resolve o conjunto efetivo: permissões do Role
// dinâmico ativo (se existir) unidas às concessões individuais do usuário.
// Falha ou ausência de Role dinâmico degrada para o catálogo estático —
// nunca retorna erro, por isso a resolução é total.
func (e *Evaluator) EffectivePermissions(ctx context.Context, roleName string, overrides []string) []string {
	rolePerms := DefaultRolePermissions[roleName]

	if e.roles != nil {
		if role, err := e.roles.FindActiveRoleByName(ctx, roleName); err == nil && role != nil {
			rolePerms = role.Permissions
		}
	}

	return unionPermissions(overrides, rolePerms)
}

// HasPermission testa pertencimento no conjunto efetivo.
func (e *Evaluator) HasPermission(ctx context.Context, roleName string, overrides []string, permission string) bool {
	for _, p := range e.EffectivePermissions(ctx, roleName, overrides) {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission testa se ao menos uma das permissões está presente.
func (e *Evaluator) HasAnyPermission(ctx context.Context, roleName string, overrides []string, permissions ...string) bool {
	effective := e.EffectivePermissions(ctx, roleName, overrides)
	set := make(map[string]struct{}, len(effective))
	for _, p := range effective {
		set[p] = struct{}{}
	}
	for _, p := range permissions {
		if _, ok := set[p]; ok {
			return true
		}
	}
	return false
}

// unionPermissions preserva a ordem (overrides primeiro) e remove duplicatas.
func unionPermissions(overrides, rolePerms []string) []string {
	seen := make(map[string]struct{}, len(overrides)+len(rolePerms))
	out := make([]string, 0, len(overrides)+len(rolePerms))

	for _, group := range [][]string{overrides, rolePerms} {
		for _, p := range group {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}

	return out
}
