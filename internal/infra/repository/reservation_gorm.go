package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/mesafacil/reservation-api/internal/domain/reservation"
	"github.com/mesafacil/reservation-api/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

// --------------------------------------------------
// Reservation
// --------------------------------------------------

func (r *ReservationGormRepository) CreateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *ReservationGormRepository) GetReservation(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationGormRepository) ListReservations(
	ctx context.Context,
	page int,
	limit int,
) ([]models.Reservation, int64, error) {

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit

	var list []models.Reservation
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *ReservationGormRepository) UpdateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).Save(res).Error
}

func (r *ReservationGormRepository) DeleteReservation(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).
		Delete(&models.Reservation{}, id).Error
}

// --------------------------------------------------
// Table
// --------------------------------------------------

func (r *ReservationGormRepository) GetTable(
	ctx context.Context,
	id uint,
) (*models.Table, error) {

	var table models.Table
	if err := r.db.WithContext(ctx).First(&table, id).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

// --------------------------------------------------
// Junction
// --------------------------------------------------

func (r *ReservationGormRepository) ListLinksForTable(
	ctx context.Context,
	tableID uint,
) ([]models.ReservationTable, error) {

	var links []models.ReservationTable
	if err := r.db.WithContext(ctx).
		Where("table_id = ?", tableID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *ReservationGormRepository) CreateLink(
	ctx context.Context,
	link *models.ReservationTable,
) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *ReservationGormRepository) DeleteLinksForReservation(
	ctx context.Context,
	reservationID uint,
) error {
	return r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Delete(&models.ReservationTable{}).Error
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *ReservationGormRepository) Transaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ReservationGormRepository{db: tx})
	})
}

// Compile-time check
var _ domain.Repository = (*ReservationGormRepository)(nil)
