package repository

import (
	"context"
	"database/sql"

	"github.com/library-service/internal/model"
)

// CopyRepo provides access to the book_copies table. Copy creation
// happens in staff batches; after that the status column is the only
// thing that changes. All mutating methods run inside a caller-owned
// transaction because copy state never moves alone — a batch insert
// pairs with a serial read, a status flip pairs with a loan write.
type CopyRepo struct{ DB *sql.DB }

func NewCopyRepo(db *sql.DB) *CopyRepo { return &CopyRepo{DB: db} }

// LastSerialTx returns the highest serial assigned to copies of the
// given ISBN, or 0 when the book has no copies yet. It must run in
// the same transaction as the following batch insert so two batches
// cannot both continue from the same serial unnoticed — if they do,
// the unique (book_isbn, serial) key rejects the loser.
func (r *CopyRepo) LastSerialTx(ctx context.Context, tx *sql.Tx, isbn string) (uint32, error) {
	var last uint32
	err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(serial),0) FROM book_copies WHERE book_isbn=?",
		isbn).Scan(&last)
	return last, err
}

// CreateBulkTx inserts the given copies in a single statement. The
// whole batch succeeds or the statement fails as one; a duplicate key
// maps to ErrDuplicateCopy. Passing an empty slice has no effect.
func (r *CopyRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, copies []model.BookCopy) error {
	if len(copies) == 0 {
		return nil
	}
	query := "INSERT INTO book_copies (book_isbn, serial, copy_barcode, status) VALUES "
	args := make([]interface{}, 0, len(copies)*4)
	for i, c := range copies {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?)"
		args = append(args, c.BookISBN, c.Serial, c.Barcode, c.Status)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicate(err) {
			return ErrDuplicateCopy
		}
		return err
	}
	return nil
}

// SelectAvailableTx picks the AVAILABLE copy of the given ISBN with
// the lowest serial and locks the row for the remainder of the
// transaction, so a concurrent checkout cannot allocate the same
// copy. Returns ErrNoAvailableCopy when nothing is free.
func (r *CopyRepo) SelectAvailableTx(ctx context.Context, tx *sql.Tx, isbn string) (model.BookCopy, error) {
	var c model.BookCopy
	err := tx.QueryRowContext(ctx,
		"SELECT id,book_isbn,serial,copy_barcode,status FROM book_copies WHERE book_isbn=? AND status=? ORDER BY serial ASC LIMIT 1 FOR UPDATE",
		isbn, model.CopyStatusAvailable).Scan(&c.ID, &c.BookISBN, &c.Serial, &c.Barcode, &c.Status)
	if err == sql.ErrNoRows {
		return model.BookCopy{}, ErrNoAvailableCopy
	}
	return c, err
}

// GetByBarcodeTx fetches a copy by barcode inside the transaction,
// locking the row. Returns ErrCopyNotFound when the barcode is unknown.
func (r *CopyRepo) GetByBarcodeTx(ctx context.Context, tx *sql.Tx, barcode string) (model.BookCopy, error) {
	var c model.BookCopy
	err := tx.QueryRowContext(ctx,
		"SELECT id,book_isbn,serial,copy_barcode,status FROM book_copies WHERE copy_barcode=? LIMIT 1 FOR UPDATE",
		barcode).Scan(&c.ID, &c.BookISBN, &c.Serial, &c.Barcode, &c.Status)
	if err == sql.ErrNoRows {
		return model.BookCopy{}, ErrCopyNotFound
	}
	return c, err
}

// UpdateStatusTx sets the status of the copy with the given barcode.
// Callers resolve the barcode first (SelectAvailableTx or
// GetByBarcodeTx), so a missing row is not re-checked here.
func (r *CopyRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, barcode, status string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE book_copies SET status=? WHERE copy_barcode=?", status, barcode)
	return err
}
