package reservation

import (
	"context"

	"github.com/mesafacil/reservation-api/internal/audit"
	domain "github.com/mesafacil/reservation-api/internal/domain/reservation"
	"github.com/mesafacil/reservation-api/internal/httperr"
)

type DeleteReservation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteReservation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteReservation {
	return &DeleteReservation{
		repo:  repo,
		audit: audit,
	}
}

// Execute remove a reserva e suas linhas de junção na mesma transação;
// o storage não tem cascade, então a limpeza referencial é explícita.
func (uc *DeleteReservation) Execute(
	ctx context.Context,
	actorID uint,
	id uint,
) error {

	res, err := uc.repo.GetReservation(ctx, id)
	if err != nil {
		return httperr.ErrBusiness("reservation_not_found")
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.DeleteLinksForReservation(ctx, res.ID); err != nil {
			return err
		}
		return tx.DeleteReservation(ctx, res.ID)
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "reservation_deleted",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	return nil
}
