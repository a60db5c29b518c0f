package reservation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mesafacil/reservation-api/internal/audit"
	domain "github.com/mesafacil/reservation-api/internal/domain/reservation"
	"github.com/mesafacil/reservation-api/internal/httperr"
	"github.com/mesafacil/reservation-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateReservationInput struct {
	UserID uint

	Date      string // 2006-01-02
	StartTime string // 15:04
	EndTime   string // 15:04

	TableIDs []uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateReservation struct {
	repo  domain.Repository
	locks *tableLocker
	audit *audit.Dispatcher
}

func NewCreateReservation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateReservation {
	return &CreateReservation{
		repo:  repo,
		locks: newTableLocker(),
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateReservation) Execute(
	ctx context.Context,
	in CreateReservationInput,
) (*models.Reservation, error) {

	// --------------------------------------------------
	// 1. Validação de entrada
	// --------------------------------------------------
	tableIDs := dedupe(in.TableIDs)
	if len(tableIDs) == 0 {
		return nil, httperr.ErrBusiness("tables_required")
	}

	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	start, err := atTimeOfDay(date, in.StartTime)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	end, err := atTimeOfDay(date, in.EndTime)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	if !start.Before(end) {
		return nil, httperr.ErrBusiness("invalid_time_window")
	}

	for _, tableID := range tableIDs {
		if _, err := uc.repo.GetTable(ctx, tableID); err != nil {
			return nil, httperr.ErrBusiness("table_not_found")
		}
	}

	// --------------------------------------------------
	// 2. Reserva criada primeiro, sempre pendente
	// --------------------------------------------------
	res := &models.Reservation{
		UserID:    in.UserID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateReservation(ctx, res); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Seção crítica por mesa + transação
	// --------------------------------------------------
	unlock := uc.locks.LockAll(tableIDs)
	defer unlock()

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		for _, tableID := range tableIDs {
			if err := assertNoTableConflict(ctx, tx, tableID, res); err != nil {
				return err
			}
		}

		for _, tableID := range tableIDs {
			link := &models.ReservationTable{
				ReservationID: res.ID,
				TableID:       tableID,
			}
			if err := tx.CreateLink(ctx, link); err != nil {
				return err
			}
		}

		return nil
	})

	// --------------------------------------------------
	// 4. Compensação: conflito cancela a reserva pendente
	// --------------------------------------------------
	if err != nil {
		if _, ok := httperr.AsConflict(err); ok {
			res.Status = string(domain.StatusCancelled)
			_ = uc.repo.UpdateReservation(ctx, res)
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "reservation_created",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	return res, nil
}

// assertNoTableConflict varre as reservas não canceladas vinculadas à mesa
// e falha se alguma disputa a mesma janela no mesmo dia de calendário.
func assertNoTableConflict(
	ctx context.Context,
	repo domain.Repository,
	tableID uint,
	candidate *models.Reservation,
) error {

	links, err := repo.ListLinksForTable(ctx, tableID)
	if err != nil {
		return err
	}

	for _, link := range links {
		other, err := repo.GetReservation(ctx, link.ReservationID)
		if err != nil {
			// link órfão não bloqueia a mesa
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}

		if other.Status == string(domain.StatusCancelled) {
			continue
		}

		if domain.ConflictsWith(candidate, other) {
			return httperr.ErrTableConflict(tableID)
		}
	}

	return nil
}

func atTimeOfDay(date time.Time, hm string) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	), nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
