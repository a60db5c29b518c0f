package models

// ReservationTable é a junção explícita N:N entre Reservation e Table.
// O storage não garante integridade referencial; quem mantém a invariante
// (reservas não canceladas de uma mesa nunca se sobrepõem no mesmo dia)
// é o usecase de criação.
type ReservationTable struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ReservationID uint `gorm:"index;not null" json:"reservation_id"`
	TableID       uint `gorm:"index;not null" json:"table_id"`
}
