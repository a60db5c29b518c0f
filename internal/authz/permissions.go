package authz

// ===============================
// Catálogo de permissões
// ===============================

const (
	PermUserCreate      = "user:create"
	PermUserRead        = "user:read"
	PermUserUpdate      = "user:update"
	PermUserDelete      = "user:delete"
	PermUserManageRoles = "user:manage_roles"

	PermTableCreate = "table:create"
	PermTableRead   = "table:read"
	PermTableUpdate = "table:update"
	PermTableDelete = "table:delete"

	PermReservationCreate    = "reservation:create"
	PermReservationRead      = "reservation:read"
	PermReservationUpdate    = "reservation:update"
	PermReservationDelete    = "reservation:delete"
	PermReservationManageAll = "reservation:manage_all"

	PermSystemViewLogs       = "system:view_logs"
	PermSystemManageSettings = "system:manage_settings"
	PermSystemExportData     = "system:export_data"
)

type Permission struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog lista todas as permissões reconhecidas pelo sistema, na ordem
// em que aparecem no endpoint de permissões disponíveis.
var Catalog = []Permission{
	{PermUserCreate, "Criar usuários"},
	{PermUserRead, "Ver usuários"},
	{PermUserUpdate, "Atualizar usuários"},
	{PermUserDelete, "Excluir usuários"},
	{PermUserManageRoles, "Gerenciar papéis de usuários"},

	{PermTableCreate, "Criar mesas"},
	{PermTableRead, "Ver mesas"},
	{PermTableUpdate, "Atualizar mesas"},
	{PermTableDelete, "Excluir mesas"},

	{PermReservationCreate, "Criar reservas"},
	{PermReservationRead, "Ver reservas"},
	{PermReservationUpdate, "Atualizar reservas"},
	{PermReservationDelete, "Excluir reservas"},
	{PermReservationManageAll, "Gerenciar todas as reservas"},

	{PermSystemViewLogs, "Ver logs do sistema"},
	{PermSystemManageSettings, "Gerenciar configurações"},
	{PermSystemExportData, "Exportar dados"},
}

// DefaultRolePermissions é o fallback estático quando não existe Role
// dinâmico ativo com o nome do papel. Todo papel reconhecido tem entrada
// aqui, mesmo que vazia.
var DefaultRolePermissions = map[string][]string{
	RoleAdmin: {
		PermUserCreate, PermUserRead, PermUserUpdate, PermUserDelete,
		PermUserManageRoles,
		PermTableCreate, PermTableRead, PermTableUpdate, PermTableDelete,
		PermReservationCreate, PermReservationRead, PermReservationUpdate,
		PermReservationDelete, PermReservationManageAll,
		PermSystemViewLogs, PermSystemManageSettings, PermSystemExportData,
	},
	RoleManager: {
		PermUserRead, PermUserUpdate,
		PermTableCreate, PermTableRead, PermTableUpdate, PermTableDelete,
		PermReservationCreate, PermReservationRead, PermReservationUpdate,
		PermReservationDelete, PermReservationManageAll,
		PermSystemViewLogs,
	},
	RoleEmployee: {
		PermTableRead,
		PermReservationCreate, PermReservationRead, PermReservationUpdate,
	},
	RoleCustomer: {
		PermReservationCreate, PermReservationRead,
	},
	RoleGuest: {},
}
