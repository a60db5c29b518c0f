package reservation

import (
	"context"

	"github.com/mesafacil/reservation-api/internal/models"
)

type Repository interface {
	// -------- Reservation --------
	CreateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	GetReservation(
		ctx context.Context,
		id uint,
	) (*models.Reservation, error)

	ListReservations(
		ctx context.Context,
		page int,
		limit int,
	) ([]models.Reservation, int64, error)

	UpdateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	DeleteReservation(
		ctx context.Context,
		id uint,
	) error

	// -------- Table --------
	GetTable(
		ctx context.Context,
		id uint,
	) (*models.Table, error)

	// -------- Junction --------
	ListLinksForTable(
		ctx context.Context,
		tableID uint,
	) ([]models.ReservationTable, error)

	CreateLink(
		ctx context.Context,
		link *models.ReservationTable,
	) error

	DeleteLinksForReservation(
		ctx context.Context,
		reservationID uint,
	) error

	// -------- Transaction --------
	// Transaction executa fn sobre uma visão transacional do repositório;
	// erro de fn desfaz tudo que foi escrito dentro dela.
	Transaction(
		ctx context.Context,
		fn func(Repository) error,
	) error
}
