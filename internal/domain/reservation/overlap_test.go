package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesafacil/reservation-api/internal/models"
)

func at(day string, hm string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04", day+" "+hm)
	return t
}

func reservationOn(day, start, end string) *models.Reservation {
	return &models.Reservation{
		Date:      at(day, "00:00"),
		StartTime: at(day, start),
		EndTime:   at(day, end),
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	day := "2024-06-01"

	// janelas encostadas não conflitam
	assert.False(t, Overlaps(
		at(day, "18:00"), at(day, "19:00"),
		at(day, "19:00"), at(day, "20:00"),
	))

	// sobreposição parcial conflita
	assert.True(t, Overlaps(
		at(day, "18:00"), at(day, "19:00"),
		at(day, "18:30"), at(day, "19:30"),
	))

	// janela contida conflita
	assert.True(t, Overlaps(
		at(day, "18:00"), at(day, "20:00"),
		at(day, "18:30"), at(day, "19:00"),
	))

	// janelas disjuntas não conflitam
	assert.False(t, Overlaps(
		at(day, "12:00"), at(day, "13:00"),
		at(day, "19:00"), at(day, "20:00"),
	))
}

func TestConflictsWithSameCalendarDayOnly(t *testing.T) {
	a := reservationOn("2024-06-01", "18:00", "19:00")
	b := reservationOn("2024-06-01", "18:30", "19:30")
	c := reservationOn("2024-06-02", "18:00", "19:00")

	assert.True(t, ConflictsWith(a, b))

	// mesma janela em outro dia não conflita
	assert.False(t, ConflictsWith(a, c))
}

func TestSameCalendarDayIgnoresTimeOfDay(t *testing.T) {
	assert.True(t, SameCalendarDay(
		at("2024-06-01", "23:59"),
		at("2024-06-01", "00:01"),
	))
	assert.False(t, SameCalendarDay(
		at("2024-06-01", "12:00"),
		at("2024-07-01", "12:00"),
	))
}

func TestStatusRules(t *testing.T) {
	assert.True(t, IsValidStatus("pending"))
	assert.True(t, IsValidStatus("completed"))
	assert.False(t, IsValidStatus("archived"))

	assert.NoError(t, CanCancel(StatusPending))
	assert.NoError(t, CanCancel(StatusConfirmed))
	assert.Error(t, CanCancel(StatusCancelled))
	assert.Error(t, CanComplete(StatusCompleted))
}
