package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/library-service/internal/model"
)

// BookRepo provides access to the books table. Book rows are created
// and mutated by staff actions only; deletion is out of scope.
type BookRepo struct{ DB *sql.DB }

func NewBookRepo(db *sql.DB) *BookRepo { return &BookRepo{DB: db} }

// Create inserts a new book with a generated library barcode and
// returns the stored row. Title, ISBN and barcode are all unique;
// any collision maps to ErrDuplicateBook.
func (r *BookRepo) Create(ctx context.Context, title, author, isbn, location string) (model.Book, error) {
	barcode, err := model.NewBookBarcode()
	if err != nil {
		return model.Book{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO books (title, author, isbn, library_barcode, available, location) VALUES (?,?,?,?,?,?)",
		strings.TrimSpace(title), strings.TrimSpace(author), strings.TrimSpace(isbn), barcode, true, strings.TrimSpace(location))
	if err != nil {
		if isDuplicate(err) {
			return model.Book{}, ErrDuplicateBook
		}
		return model.Book{}, err
	}
	return r.GetByISBN(ctx, isbn)
}

// GetByISBN fetches a book by ISBN, returning ErrBookNotFound when no
// row matches.
func (r *BookRepo) GetByISBN(ctx context.Context, isbn string) (model.Book, error) {
	var b model.Book
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,title,author,isbn,library_barcode,available,location,created_at,updated_at FROM books WHERE isbn=? LIMIT 1",
		strings.TrimSpace(isbn)).Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.LibraryBarcode,
		&b.Available, &b.Location, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Book{}, ErrBookNotFound
	}
	return b, err
}

// Update applies a partial update to the book with the given ISBN.
// Only non-nil fields of upd are written; everything else keeps its
// prior value. Returns ErrBookNotFound when the ISBN is unknown and
// ErrDuplicateBook when a new title collides with another row.
func (r *BookRepo) Update(ctx context.Context, isbn string, upd model.BookUpdate) error {
	if _, err := r.GetByISBN(ctx, isbn); err != nil {
		return err
	}
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if upd.Title != nil {
		sets = append(sets, "title=?")
		args = append(args, strings.TrimSpace(*upd.Title))
	}
	if upd.Author != nil {
		sets = append(sets, "author=?")
		args = append(args, strings.TrimSpace(*upd.Author))
	}
	if upd.Location != nil {
		sets = append(sets, "location=?")
		args = append(args, strings.TrimSpace(*upd.Location))
	}
	if upd.Available != nil {
		sets = append(sets, "available=?")
		args = append(args, *upd.Available)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, strings.TrimSpace(isbn))
	_, err := r.DB.ExecContext(ctx, "UPDATE books SET "+strings.Join(sets, ", ")+" WHERE isbn=?", args...)
	if isDuplicate(err) {
		return ErrDuplicateBook
	}
	return err
}
