package httperr

import "errors"

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// ConflictError identifica a mesa que causou a sobreposição de horário.
type ConflictError struct {
	TableID uint
}

func (e ConflictError) Error() string {
	return "table_time_conflict"
}

func ErrTableConflict(tableID uint) error {
	return ConflictError{TableID: tableID}
}

func AsConflict(err error) (ConflictError, bool) {
	var ce ConflictError
	ok := errors.As(err, &ce)
	return ce, ok
}
