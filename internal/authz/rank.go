package authz

// ===============================
// Papéis fixos e ordem de rotas
// ===============================

const (
	RoleGuest    = "guest"
	RoleCustomer = "customer"
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// RoleRank é a ordem total fixa usada para gate de rota mínima.
// Não confundir com models.Role.HierarchyLevel, que é um inteiro
// configurável do cadastro de papéis.
var RoleRank = map[string]int{
	RoleGuest:    0,
	RoleCustomer: 1,
	RoleEmployee: 2,
	RoleManager:  3,
	RoleAdmin:    4,
}

func IsKnownRole(name string) bool {
	_, ok := RoleRank[name]
	return ok
}

// AllowMinimumRole permite quando o rank do papel do usuário é maior ou
// igual ao rank mínimo exigido. Papel desconhecido tem rank 0 (guest).
func AllowMinimumRole(roleName, minimumRole string) bool {
	return RoleRank[roleName] >= RoleRank[minimumRole]
}

// AllowOwnershipOrRole permite quando o usuário é dono do recurso ou
// quando seu papel está na lista de papéis autorizados.
func AllowOwnershipOrRole(roleName string, userID, resourceOwnerID uint, allowedRoles ...string) bool {
	if userID == resourceOwnerID {
		return true
	}
	for _, r := range allowedRoles {
		if r == roleName {
			return true
		}
	}
	return false
}
