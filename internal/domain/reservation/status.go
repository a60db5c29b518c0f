package reservation

import "github.com/mesafacil/reservation-api/internal/httperr"

// ===============================
// Reservation Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// IsValidStatus aceita apenas os quatro estados conhecidos. A atualização
// genérica não valida transições: qualquer estado conhecido pode
// sobrescrever qualquer outro.
func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ===============================
// Validations
// ===============================

// CanCancel define se uma reserva pode ser cancelada
func CanCancel(current Status) error {
	if current == StatusCancelled || current == StatusCompleted {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete define se uma reserva pode ser concluída
func CanComplete(current Status) error {
	if current == StatusCancelled || current == StatusCompleted {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// InitialStatus é o status de toda reserva recém-criada.
func InitialStatus() Status {
	return StatusPending
}
