package reservation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mesafacil/reservation-api/internal/audit"
	domain "github.com/mesafacil/reservation-api/internal/domain/reservation"
	"github.com/mesafacil/reservation-api/internal/httperr"
	"github.com/mesafacil/reservation-api/internal/infra/repository"
	"github.com/mesafacil/reservation-api/internal/models"
)

var dbSeq int

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:usecase_%d?mode=memory&cache=shared", dbSeq)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Reservation{},
		&models.ReservationTable{},
		&models.AuditLog{},
	))

	return db
}

func seedTable(t *testing.T, db *gorm.DB, number int) *models.Table {
	t.Helper()

	table := &models.Table{Number: number, Capacity: 4, Location: "salão"}
	require.NoError(t, db.Create(table).Error)
	return table
}

func seedReservation(t *testing.T, db *gorm.DB, tableID uint, day, start, end, status string) *models.Reservation {
	t.Helper()

	date, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)

	startAt, err := atTimeOfDay(date, start)
	require.NoError(t, err)
	endAt, err := atTimeOfDay(date, end)
	require.NoError(t, err)

	res := &models.Reservation{
		UserID:    1,
		Date:      date,
		StartTime: startAt,
		EndTime:   endAt,
		Status:    status,
	}
	require.NoError(t, db.Create(res).Error)
	require.NoError(t, db.Create(&models.ReservationTable{
		ReservationID: res.ID,
		TableID:       tableID,
	}).Error)

	return res
}

func newCreateUC(db *gorm.DB) *CreateReservation {
	repo := repository.NewReservationGormRepository(db)
	dispatcher := audit.NewDispatcher(audit.New(db))
	return NewCreateReservation(repo, dispatcher)
}

func linkCount(t *testing.T, db *gorm.DB, reservationID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.ReservationTable{}).
		Where("reservation_id = ?", reservationID).
		Count(&count).Error)
	return count
}

// ------------------------------------------------------
// Cenários
// ------------------------------------------------------

func TestCreateReservationSuccess(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, 1)
	uc := newCreateUC(db)

	res, err := uc.Execute(context.Background(), CreateReservationInput{
		UserID:    10,
		Date:      "2024-06-01",
		StartTime: "18:00",
		EndTime:   "19:00",
		TableIDs:  []uint{table.ID},
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), res.Status)
	assert.Equal(t, uint(10), res.UserID)
	assert.Equal(t, int64(1), linkCount(t, db, res.ID))
}

func TestCreateReservationBackToBackWindows(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, 1)
	seedReservation(t, db, table.ID, "2024-06-01", "18:00", "19:00", "confirmed")
	uc := newCreateUC(db)

	// termina exatamente quando a outra começa: sem conflito
	res, err := uc.Execute(context.Background(), CreateReservationInput{
		UserID:    10,
		Date:      "2024-06-01",
		StartTime: "19:00",
		EndTime:   "20:00",
		TableIDs:  []uint{table.ID},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), linkCount(t, db, res.ID))
}

func TestCreateReservationOverlapRejected(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, 1)
	seedReservation(t, db, table.ID, "2024-06-01", "18:00", "19:00", "confirmed")
	uc := newCreateUC(db)

	_, err := uc.Execute(context.Background(), CreateReservationInput{
		UserID:    10,
		Date:      "2024-06-01",
		StartTime: "18:30",
		EndTime:   "19:30",
		TableIDs:  []uint{table.ID},
	})

	require.Error(t, err)
	ce, ok := httperr.AsConflict(err)
	require.True(t, ok)
	assert.Equal(t, table.ID, ce.TableID)
}

func TestCreateReservationDifferentDayAccepted(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, 1)
	seedReservation(t, db, table.ID, "2024-06-01", "18:00", "19:00", "confirmed")
	uc := newCreateUC(db)

	res, err := uc.Execute(context.Background(), CreateReservationInput{
		UserID:    10,
		Date:      "2024-06-02",
		StartTime: "18:00",
		EndTime:   "19:00",
		TableIDs:  []uint{table.ID},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), linkCount(t, db, res.ID))
}

func TestCreateReservationIgnoresCancelled(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, 1)
	seedReservation(t, db, table.ID, "2024-06-01", "18:00", "19:00", "cancelled")
	uc := newCreateUC(db)

	res, err := uc.Execute(context.Background(), CreateReservationInput{
		UserID:    10,
		Date:      "2024-06-01",
		StartTime: "18:00",
		EndTime:   "19:00",
		TableIDs:  []uint{table.ID},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), linkCount(t, db, res.ID))
}

func TestCreateReservationConflictCompensates(t *testing.T) {
	db := setupTestDB(t)
	free := seedTable(t, db, 1)
	busy := seedTable(t, db, 2)
	seedReservation(t, db, busy.ID, "2024-06-01", "18:00", "19:00", "confirmed")
	uc := newCreateUC(db)

	_, err := uc.Execute(context.Background(), CreateReservationInput{
		UserID:    10,
		Date:      "2024-06-01",
		StartTime: "18:30",
		EndTime:   "19:30",
		TableIDs:  []uint{free.ID, busy.ID},
	})

	require.Error(t, err)
	ce, ok := httperr.AsConflict(err)
	require.True(t, ok)
	assert.Equal(t, busy.ID, ce.TableID)

	// compensação: a reserva pendente vira cancelled e nenhum vínculo
	// sobrevive, nem o da mesa livre
	var created models.Reservation
	require.NoError(t, db.Where("user_id = ?", 10).First(&created).Error)
	assert.Equal(t, string(domain.StatusCancelled), created.Status)
	assert.Equal(t, int64(0), linkCount(t, db, created.ID))
}

func TestCreateReservationValidation(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, 1)
	uc := newCreateUC(db)

	// sem mesas
	_, err := uc.Execute(context.Background(), CreateReservationInput{
		UserID:    10,
		Date:      "2024-06-01",
		StartTime: "18:00",
		EndTime:   "19:00",
	})
	assert.True(t, httperr.IsBusiness(err, "tables_required"))

	// janela invertida
	_, err = uc.Execute(context.Background(), CreateReservationInput{
		UserID:    10,
		Date:      "2024-06-01",
		StartTime: "19:00",
		EndTime:   "18:00",
		TableIDs:  []uint{table.ID},
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_time_window"))

	// data ilegível
	_, err = uc.Execute(context.Background(), CreateReservationInput{
		UserID:    10,
		Date:      "junho",
		StartTime: "18:00",
		EndTime:   "19:00",
		TableIDs:  []uint{table.ID},
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))

	// mesa inexistente
	_, err = uc.Execute(context.Background(), CreateReservationInput{
		UserID:    10,
		Date:      "2024-06-01",
		StartTime: "18:00",
		EndTime:   "19:00",
		TableIDs:  []uint{999},
	})
	assert.True(t, httperr.IsBusiness(err, "table_not_found"))

	// nada disso criou vínculos
	var count int64
	require.NoError(t, db.Model(&models.ReservationTable{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteReservationCleansLinks(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, 1)
	res := seedReservation(t, db, table.ID, "2024-06-01", "18:00", "19:00", "confirmed")

	repo := repository.NewReservationGormRepository(db)
	dispatcher := audit.NewDispatcher(audit.New(db))
	uc := NewDeleteReservation(repo, dispatcher)

	require.NoError(t, uc.Execute(context.Background(), 1, res.ID))

	assert.Equal(t, int64(0), linkCount(t, db, res.ID))

	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUpdateReservationMergesPatch(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, 1)
	res := seedReservation(t, db, table.ID, "2024-06-01", "18:00", "19:00", "pending")

	repo := repository.NewReservationGormRepository(db)
	dispatcher := audit.NewDispatcher(audit.New(db))
	uc := NewUpdateReservation(repo, dispatcher)

	status := "confirmed"
	end := "20:00"
	updated, err := uc.Execute(context.Background(), 1, res.ID, UpdateReservationInput{
		EndTime: &end,
		Status:  &status,
	})

	require.NoError(t, err)
	assert.Equal(t, "confirmed", updated.Status)
	assert.Equal(t, 20, updated.EndTime.Hour())
	// a data e o início não mudam
	assert.Equal(t, 18, updated.StartTime.Hour())

	bad := "archived"
	_, err = uc.Execute(context.Background(), 1, res.ID, UpdateReservationInput{Status: &bad})
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestUpdateReservationDateMovesWindow(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, 1)
	res := seedReservation(t, db, table.ID, "2024-06-01", "18:00", "19:00", "confirmed")

	repo := repository.NewReservationGormRepository(db)
	dispatcher := audit.NewDispatcher(audit.New(db))
	uc := NewUpdateReservation(repo, dispatcher)

	// só a data muda: a janela é reancorada no novo dia
	newDay := "2024-06-05"
	updated, err := uc.Execute(context.Background(), 1, res.ID, UpdateReservationInput{
		Date: &newDay,
	})
	require.NoError(t, err)

	assert.True(t, domain.SameCalendarDay(updated.Date, updated.StartTime))
	assert.True(t, domain.SameCalendarDay(updated.Date, updated.EndTime))
	assert.Equal(t, 5, updated.StartTime.Day())
	assert.Equal(t, 18, updated.StartTime.Hour())
	assert.Equal(t, 19, updated.EndTime.Hour())

	// a reserva movida volta a contar no teste de conflito do novo dia
	createUC := newCreateUC(db)
	_, err = createUC.Execute(context.Background(), CreateReservationInput{
		UserID:    10,
		Date:      "2024-06-05",
		StartTime: "18:30",
		EndTime:   "19:30",
		TableIDs:  []uint{table.ID},
	})
	require.Error(t, err)
	ce, ok := httperr.AsConflict(err)
	require.True(t, ok)
	assert.Equal(t, table.ID, ce.TableID)
}
