package reservation

import (
	"time"

	"github.com/mesafacil/reservation-api/internal/models"
)

// SameCalendarDay compara apenas ano/mês/dia, nunca o timestamp completo.
func SameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// Overlaps aplica a sobreposição de intervalos semiabertos [startA, endA)
// e [startB, endB): conflito sse startA < endB && startB < endA. Janelas
// encostadas (endA == startB) não conflitam.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

// ConflictsWith diz se duas reservas disputam a mesma mesa: mesmo dia de
// calendário e janelas sobrepostas. Status é responsabilidade de quem
// chama (reservas canceladas já devem ter sido filtradas).
func ConflictsWith(a, b *models.Reservation) bool {
	if !SameCalendarDay(a.Date, b.Date) {
		return false
	}
	return Overlaps(a.StartTime, a.EndTime, b.StartTime, b.EndTime)
}
