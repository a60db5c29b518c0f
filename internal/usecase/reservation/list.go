package reservation

import (
	"context"

	domain "github.com/mesafacil/reservation-api/internal/domain/reservation"
	"github.com/mesafacil/reservation-api/internal/httperr"
	"github.com/mesafacil/reservation-api/internal/models"
)

type ListReservations struct {
	repo domain.Repository
}

func NewListReservations(repo domain.Repository) *ListReservations {
	return &ListReservations{repo: repo}
}

// Execute pagina por offset/limit sobre todas as reservas, sem filtro de
// data ou status.
func (uc *ListReservations) Execute(
	ctx context.Context,
	page int,
	limit int,
) ([]models.Reservation, int64, error) {

	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	return uc.repo.ListReservations(ctx, page, limit)
}

type GetReservation struct {
	repo domain.Repository
}

func NewGetReservation(repo domain.Repository) *GetReservation {
	return &GetReservation{repo: repo}
}

func (uc *GetReservation) Execute(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	res, err := uc.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, httperr.ErrBusiness("reservation_not_found")
	}
	return res, nil
}
