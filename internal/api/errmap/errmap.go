// Package errmap translates domain signals into transport errors at the
// handler boundary.
package errmap

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/esteveslima/media-collection/internal/core/domain"
)

// Table maps a signal to the transport error a call site wants for it.
type Table map[domain.Signal]*echo.HTTPError

// Map returns the table entry for the signal carried by err, or err
// unchanged when err carries no signal or the table has no entry for it.
// The mapped error is returned exactly as stored in the table.
func Map(err error, table Table) error {
	if err == nil {
		return nil
	}
	var sig domain.Signal
	if !errors.As(err, &sig) {
		return err
	}
	if mapped, ok := table[sig]; ok && mapped != nil {
		return mapped
	}
	return err
}

// New builds a table entry with a plain string message.
func New(code int, message string) *echo.HTTPError {
	return echo.NewHTTPError(code, message)
}
