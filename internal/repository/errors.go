// Package repository holds the MySQL data access layer.  The sentinel
// errors below let handlers and services tell failure kinds apart without
// depending on driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a row addressed by ID does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller may not touch a resource.
// Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or update collides with existing
// state, such as a duplicate pitch name.  Handlers translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is the users-table flavour of ErrConflict.
var ErrEmailExists = errors.New("email already exists")

// isDuplicate reports MySQL error 1062 (duplicate entry).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return err != nil && strings.Contains(err.Error(), "Error 1062")
}
