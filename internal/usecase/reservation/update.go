package reservation

import (
	"context"
	"time"

	"github.com/mesafacil/reservation-api/internal/audit"
	domain "github.com/mesafacil/reservation-api/internal/domain/reservation"
	"github.com/mesafacil/reservation-api/internal/httperr"
	"github.com/mesafacil/reservation-api/internal/models"
)

type UpdateReservationInput struct {
	Date      *string // 2006-01-02
	StartTime *string // 15:04
	EndTime   *string // 15:04
	Status    *string
}

type UpdateReservation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateReservation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateReservation {
	return &UpdateReservation{
		repo:  repo,
		audit: audit,
	}
}

// Execute mescla o patch sobre a reserva existente. Mudança de janela NÃO
// reexecuta a detecção de conflito, e o status pode sobrescrever qualquer
// outro desde que seja um dos quatro conhecidos.
func (uc *UpdateReservation) Execute(
	ctx context.Context,
	actorID uint,
	id uint,
	in UpdateReservationInput,
) (*models.Reservation, error) {

	res, err := uc.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, httperr.ErrBusiness("reservation_not_found")
	}

	if in.Date != nil {
		date, err := time.Parse("2006-01-02", *in.Date)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		res.Date = date
		// a janela acompanha o novo dia; ancorada no dia antigo, a
		// reserva movida escaparia do teste de conflito do novo dia
		res.StartTime = onDay(date, res.StartTime)
		res.EndTime = onDay(date, res.EndTime)
	}

	if in.StartTime != nil {
		start, err := atTimeOfDay(res.Date, *in.StartTime)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		res.StartTime = start
	}

	if in.EndTime != nil {
		end, err := atTimeOfDay(res.Date, *in.EndTime)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		res.EndTime = end
	}

	if !res.StartTime.Before(res.EndTime) {
		return nil, httperr.ErrBusiness("invalid_time_window")
	}

	if in.Status != nil {
		if !domain.IsValidStatus(*in.Status) {
			return nil, httperr.ErrBusiness("invalid_status")
		}
		res.Status = *in.Status
	}

	if err := uc.repo.UpdateReservation(ctx, res); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "reservation_updated",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	return res, nil
}

// onDay reposiciona o horário t no dia de calendário de date.
func onDay(date, t time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		date.Location(),
	)
}
