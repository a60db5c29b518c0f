package models

import "time"

// Role é a fonte dinâmica de permissões. HierarchyLevel é um inteiro
// configurável com unicidade própria e não tem relação com a ordem fixa
// usada nas rotas (authz.RoleRank).
type Role struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string   `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string   `gorm:"size:255" json:"description"`
	Permissions []string `gorm:"serializer:json" json:"permissions"`

	// IsActive não leva default no gorm: com a tag, um insert com false
	// seria omitido e o default do banco gravaria true. Quem cria o
	// registro define o valor explicitamente.
	IsActive       bool `json:"is_active"`
	HierarchyLevel int  `gorm:"uniqueIndex" json:"hierarchy_level"`

	CreatedBy string `gorm:"size:100" json:"created_by"`
	UpdatedBy string `gorm:"size:100" json:"updated_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
