package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesafacil/reservation-api/internal/audit"
	"github.com/mesafacil/reservation-api/internal/authz"
	"github.com/mesafacil/reservation-api/internal/config"
	"github.com/mesafacil/reservation-api/internal/handlers"
	infraRepo "github.com/mesafacil/reservation-api/internal/infra/repository"
	"github.com/mesafacil/reservation-api/internal/middleware"
	ucReservation "github.com/mesafacil/reservation-api/internal/usecase/reservation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	reservationRepo := infraRepo.NewReservationGormRepository(db)
	roleRepo := infraRepo.NewRoleGormRepository(db)

	evaluator := authz.NewEvaluator(roleRepo)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — RESERVATIONS
	// ======================================================
	createReservationUC := ucReservation.NewCreateReservation(
		reservationRepo,
		auditDispatcher,
	)

	listReservationsUC := ucReservation.NewListReservations(reservationRepo)
	getReservationUC := ucReservation.NewGetReservation(reservationRepo)

	updateReservationUC := ucReservation.NewUpdateReservation(
		reservationRepo,
		auditDispatcher,
	)

	deleteReservationUC := ucReservation.NewDeleteReservation(
		reservationRepo,
		auditDispatcher,
	)

	cancelReservationUC := ucReservation.NewCancelReservation(
		reservationRepo,
		auditDispatcher,
	)

	completeReservationUC := ucReservation.NewCompleteReservation(
		reservationRepo,
		auditDispatcher,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db, evaluator)
	userHandler := handlers.NewUserHandler(db)
	tableHandler := handlers.NewTableHandler(db)
	roleHandler := handlers.NewRoleHandler(db, auditDispatcher)

	reservationHandler := handlers.NewReservationHandler(
		createReservationUC,
		listReservationsUC,
		getReservationUC,
		updateReservationUC,
		deleteReservationUC,
		cancelReservationUC,
		completeReservationUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// USERS
			// ------------------------------
			secured.GET("/users",
				middleware.RequirePermission(evaluator, authz.PermUserRead),
				userHandler.List)
			secured.GET("/users/:id",
				middleware.RequireOwnershipOrRole("id", authz.RoleAdmin, authz.RoleManager),
				userHandler.Get)
			secured.PATCH("/users/:id",
				middleware.RequireOwnershipOrRole("id", authz.RoleAdmin),
				userHandler.Update)
			secured.DELETE("/users/:id",
				middleware.RequirePermission(evaluator, authz.PermUserDelete),
				userHandler.Delete)

			// ------------------------------
			// TABLES
			// ------------------------------
			secured.GET("/tables",
				middleware.RequirePermission(evaluator, authz.PermTableRead),
				tableHandler.List)
			secured.GET("/tables/:id",
				middleware.RequirePermission(evaluator, authz.PermTableRead),
				tableHandler.Get)
			secured.POST("/tables",
				middleware.RequirePermission(evaluator, authz.PermTableCreate),
				tableHandler.Create)
			secured.PATCH("/tables/:id",
				middleware.RequirePermission(evaluator, authz.PermTableUpdate),
				tableHandler.Update)
			secured.DELETE("/tables/:id",
				middleware.RequirePermission(evaluator, authz.PermTableDelete),
				tableHandler.Delete)

			// ------------------------------
			// RESERVATIONS
			// ------------------------------
			secured.POST("/reservations",
				middleware.RequirePermission(evaluator, authz.PermReservationCreate),
				reservationHandler.Create)
			secured.GET("/reservations",
				middleware.RequireAnyPermission(evaluator,
					authz.PermReservationRead, authz.PermReservationManageAll),
				reservationHandler.List)
			secured.GET("/reservations/:id",
				middleware.RequirePermission(evaluator, authz.PermReservationRead),
				reservationHandler.Get)
			secured.PATCH("/reservations/:id",
				middleware.RequirePermission(evaluator, authz.PermReservationUpdate),
				reservationHandler.Update)
			secured.DELETE("/reservations/:id",
				middleware.RequirePermission(evaluator, authz.PermReservationDelete),
				reservationHandler.Delete)
			secured.PATCH("/reservations/:id/cancel",
				middleware.RequirePermission(evaluator, authz.PermReservationUpdate),
				reservationHandler.Cancel)
			secured.PATCH("/reservations/:id/complete",
				middleware.RequirePermission(evaluator, authz.PermReservationUpdate),
				reservationHandler.Complete)

			// ------------------------------
			// ROLES (ADMIN)
			// ------------------------------
			roles := secured.Group("/roles")
			roles.Use(middleware.RequireMinimumRole(authz.RoleAdmin))
			{
				roles.POST("", roleHandler.Create)
				roles.GET("", roleHandler.List)
				roles.GET("/permissions", roleHandler.ListPermissions)
				roles.POST("/assign", roleHandler.AssignToUser)
				roles.GET("/:id", roleHandler.Get)
				roles.PATCH("/:id", roleHandler.Update)
				roles.DELETE("/:id", roleHandler.Delete)
				roles.GET("/:id/users", roleHandler.UsersByRole)
				roles.PATCH("/:id/status", roleHandler.ToggleStatus)
			}

			// ------------------------------
			// AUDIT LOGS
			// ------------------------------
			secured.GET("/audit-logs",
				middleware.RequirePermission(evaluator, authz.PermSystemViewLogs),
				auditLogsHandler.List)
		}
	}
}
