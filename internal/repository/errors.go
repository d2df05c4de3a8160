// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them to stable client-facing responses. Uniqueness violations are
// expected outcomes of concurrent batches and loans, not logic bugs;
// the corresponding Duplicate* sentinels are the handled form of a
// lost race.
package repository

import (
	"errors"
	"strings"
)

var (
	// ErrDuplicateUser is returned when a sign-up collides with an
	// existing email.
	ErrDuplicateUser = errors.New("user with this email already exists")

	// ErrDuplicateBook is returned when a book's title, ISBN or
	// barcode collides with an existing row.
	ErrDuplicateBook = errors.New("book with this title or ISBN already exists")

	// ErrBookNotFound is returned when no book matches the given ISBN.
	ErrBookNotFound = errors.New("book not found")

	// ErrDuplicateCopy is returned when a copy batch hits the unique
	// (book_isbn, serial) or barcode constraint, typically because a
	// concurrent batch won the race.
	ErrDuplicateCopy = errors.New("duplicate book copy")

	// ErrNoAvailableCopy is returned when no AVAILABLE copy of the
	// requested ISBN exists.
	ErrNoAvailableCopy = errors.New("no available copy")

	// ErrDuplicateLoan is returned when a generated loan id collides
	// with an existing loan.
	ErrDuplicateLoan = errors.New("loan with this id already exists")

	// ErrLoanNotFound is returned when no loan matches the given loan id.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrCopyNotFound is returned when a barcode resolves to no copy.
	ErrCopyNotFound = errors.New("book copy not found")
)

// isDuplicate reports whether err is a MySQL duplicate-entry error
// (code 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
