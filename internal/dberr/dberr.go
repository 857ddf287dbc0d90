// Package dberr classifies storage errors into a small set of kinds the
// HTTP layer can map onto status codes.
package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Kind is the category of a storage failure.
type Kind int

const (
	Other Kind = iota
	NotFound
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case UniqueViolation:
		return "unique_violation"
	case ForeignKeyViolation:
		return "foreign_key_violation"
	case NotNullViolation:
		return "not_null_violation"
	case CheckViolation:
		return "check_violation"
	default:
		return "other"
	}
}

// SQLSTATE codes from the integrity constraint violation class.
const (
	codeNotNull    = "23502"
	codeForeignKey = "23503"
	codeUnique     = "23505"
	codeCheck      = "23514"
)

// Error carries a classified storage failure and the table it concerns.
type Error struct {
	Kind  Kind
	Table string
	err   error
}

func (e *Error) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s on %s: %v", e.Kind, e.Table, e.err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.err)
}

func (e *Error) Unwrap() error { return e.err }

// Wrap classifies err and attaches table. nil stays nil.
func Wrap(err error, table string) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Kind: Classify(err), Table: table, err: err}
}

// Classify inspects err for gorm sentinels, pgx errors and sqlite messages.
func Classify(err error) Kind {
	if err == nil {
		return Other
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return UniqueViolation
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ForeignKeyViolation
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return CheckViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUnique:
			return UniqueViolation
		case codeForeignKey:
			return ForeignKeyViolation
		case codeNotNull:
			return NotNullViolation
		case codeCheck:
			return CheckViolation
		}
		return Other
	}

	// sqlite only translates unique and foreign key failures
	msg := err.Error()
	switch {
	case strings.Contains(msg, "CHECK constraint failed"):
		return CheckViolation
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return NotNullViolation
	}
	return Other
}

// IsConflict reports whether err is a constraint violation caused by the
// caller's data rather than by the store being unavailable.
func IsConflict(err error) bool {
	switch Classify(err) {
	case UniqueViolation, ForeignKeyViolation, NotNullViolation, CheckViolation:
		return true
	}
	return false
}

// Message renders a client-safe sentence for err.
func Message(err error) string {
	var classified *Error
	table := ""
	if errors.As(err, &classified) {
		table = classified.Table
	}
	entity := entityName(table)

	switch Classify(err) {
	case NotFound:
		return fmt.Sprintf("%s not found", entity)
	case UniqueViolation:
		return fmt.Sprintf("%s already exists", entity)
	case ForeignKeyViolation:
		return fmt.Sprintf("%s references a record that does not exist", entity)
	case NotNullViolation:
		return fmt.Sprintf("%s is missing a required value", entity)
	case CheckViolation:
		return fmt.Sprintf("%s has a value outside the allowed range", entity)
	default:
		return "database error"
	}
}

func entityName(table string) string {
	if table == "" {
		return "Record"
	}
	name := strings.TrimSuffix(table, "s")
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}
