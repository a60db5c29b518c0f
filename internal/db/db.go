package db

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mesafacil/reservation-api/internal/authz"
	"github.com/mesafacil/reservation-api/internal/config"
	"github.com/mesafacil/reservation-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Table{},
		&models.Reservation{},
		&models.ReservationTable{},
		&models.AuditLog{},
	); err != nil {
		logrus.Fatalf("failed to migrate: %v", err)
	}

	if err := SeedDefaultRoles(db); err != nil {
		logrus.Fatalf("failed to seed roles: %v", err)
	}

	return db
}

// SeedDefaultRoles materializa o catálogo estático como registros Role na
// primeira subida. Se já houver qualquer papel cadastrado, não mexe.
func SeedDefaultRoles(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Role{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.Role{
		{
			Name:           authz.RoleAdmin,
			Description:    "Administrador do sistema com acesso completo",
			Permissions:    authz.DefaultRolePermissions[authz.RoleAdmin],
			HierarchyLevel: 5,
		},
		{
			Name:           authz.RoleManager,
			Description:    "Gerente com permissões de gestão",
			Permissions:    authz.DefaultRolePermissions[authz.RoleManager],
			HierarchyLevel: 4,
		},
		{
			Name:           authz.RoleEmployee,
			Description:    "Funcionário com permissões operacionais",
			Permissions:    authz.DefaultRolePermissions[authz.RoleEmployee],
			HierarchyLevel: 3,
		},
		{
			Name:           authz.RoleCustomer,
			Description:    "Cliente com acesso às próprias reservas",
			Permissions:    authz.DefaultRolePermissions[authz.RoleCustomer],
			HierarchyLevel: 2,
		},
		{
			Name:           authz.RoleGuest,
			Description:    "Visitante sem permissões",
			Permissions:    authz.DefaultRolePermissions[authz.RoleGuest],
			HierarchyLevel: 1,
		},
	}

	for i := range defaults {
		defaults[i].IsActive = true
		defaults[i].CreatedBy = "system"
	}

	return db.Create(&defaults).Error
}
