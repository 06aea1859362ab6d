package repository

import (
	"errors"
	"fmt"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/db"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnknownAgent is returned when a shift names an agent missing from the roster.
var ErrUnknownAgent = errors.New("unknown agent")

// ErrInvalidRow is returned when the store's constraints reject a row.
var ErrInvalidRow = errors.New("row rejected by store")

// translate maps constraint errors onto repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if db.IsForeignKeyViolation(err) {
		return ErrUnknownAgent
	}
	if db.IsCheckViolation(err) {
		return fmt.Errorf("%w: %v", ErrInvalidRow, err)
	}
	return err
}
