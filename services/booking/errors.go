package booking

import (
	"errors"

	"glowbook/database"
	"glowbook/database/repository"
	"glowbook/utils"
)

// errAlreadyHandled aborts a transaction whose booking was moved on by a
// concurrent caller. Callers treat it as a no-op.
var errAlreadyHandled = errors.New("booking already handled")

// storeErr maps repository and transaction failures onto AppErrors.
func storeErr(msg string, err error) error {
	var appErr *utils.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case database.IsWriteConflict(err):
		return utils.Conflict("Service was reserved concurrently, please retry", err)
	case errors.Is(err, repository.ErrDuplicate):
		return utils.Conflict("Booking collided with an existing record, please retry", err)
	}
	return utils.Internal(msg, err)
}

func loadErr(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound(what + " not found")
	}
	return storeErr("failed to load "+what, err)
}
