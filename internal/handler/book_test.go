package handler

import (
	"errors"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBook(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO books")).
		WithArgs("The Go Programming Language", "Alan Donovan", "9780134190440", sqlmock.AnyArg(), true, "shelf A3").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM books WHERE isbn=?")).
		WithArgs("9780134190440").
		WillReturnRows(bookRow())

	h := testBookHandler(db)
	u := borrower()
	c, rec := newJSONCtx(http.MethodPost, "/v1/books",
		`{"title":"The Go Programming Language","author":"Alan Donovan","isbn":"9780134190440","location":"shelf A3"}`, &u)

	require.NoError(t, h.CreateBook(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "BK-1234567")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO books")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))

	h := testBookHandler(db)
	u := borrower()
	c, rec := newJSONCtx(http.MethodPost, "/v1/books",
		`{"title":"The Go Programming Language","author":"Alan Donovan","isbn":"9780134190440"}`, &u)

	require.NoError(t, h.CreateBook(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetBookByISBN(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM books WHERE isbn=?")).
		WithArgs("9780134190440").
		WillReturnRows(bookRow())

	h := testBookHandler(db)
	u := borrower()
	c, rec := newJSONCtx(http.MethodGet, "/v1/books?isbn=9780134190440", "", &u)

	require.NoError(t, h.GetBookByISBN(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "9780134190440")
}

func TestGetBookByISBNMissingParam(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := testBookHandler(db)
	u := borrower()
	c, rec := newJSONCtx(http.MethodGet, "/v1/books", "", &u)

	require.NoError(t, h.GetBookByISBN(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBookByISBNNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM books WHERE isbn=?")).
		WithArgs("0000000000").
		WillReturnRows(sqlmock.NewRows(bookCols))

	h := testBookHandler(db)
	u := borrower()
	c, rec := newJSONCtx(http.MethodGet, "/v1/books?isbn=0000000000", "", &u)

	require.NoError(t, h.GetBookByISBN(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateBook(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM books WHERE isbn=?")).
		WithArgs("9780134190440").
		WillReturnRows(bookRow())
	mock.ExpectExec(regexp.QuoteMeta("UPDATE books SET location=? WHERE isbn=?")).
		WithArgs("shelf B1", "9780134190440").
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := testBookHandler(db)
	u := borrower()
	c, rec := newJSONCtx(http.MethodPut, "/v1/books/9780134190440", `{"location":"shelf B1"}`, &u)
	c.SetParamNames("isbn")
	c.SetParamValues("9780134190440")

	require.NoError(t, h.UpdateBook(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM books WHERE isbn=?")).
		WithArgs("0000000000").
		WillReturnRows(sqlmock.NewRows(bookCols))

	h := testBookHandler(db)
	u := borrower()
	c, rec := newJSONCtx(http.MethodPut, "/v1/books/0000000000", `{"location":"shelf B1"}`, &u)
	c.SetParamNames("isbn")
	c.SetParamValues("0000000000")

	require.NoError(t, h.UpdateBook(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddCopies(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM books WHERE isbn=?")).
		WithArgs("9780134190440").
		WillReturnRows(bookRow())
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(serial),0) FROM book_copies WHERE book_isbn=?")).
		WithArgs("9780134190440").
		WillReturnRows(sqlmock.NewRows([]string{"last"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO book_copies (book_isbn, serial, copy_barcode, status) VALUES (?,?,?,?),(?,?,?,?)")).
		WithArgs(
			"9780134190440", 3, "COPY-BK-1234567-003", "AVAILABLE",
			"9780134190440", 4, "COPY-BK-1234567-004", "AVAILABLE",
		).
		WillReturnResult(sqlmock.NewResult(10, 2))
	mock.ExpectCommit()

	h := testBookHandler(db)
	u := borrower()
	c, rec := newJSONCtx(http.MethodPost, "/v1/books/9780134190440/copies", `{"quantity":2}`, &u)
	c.SetParamNames("isbn")
	c.SetParamValues("9780134190440")

	require.NoError(t, h.AddCopies(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"created":2`)
	assert.Contains(t, rec.Body.String(), "COPY-BK-1234567-004")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCopiesInvalidQuantity(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := testBookHandler(db)
	u := borrower()
	c, rec := newJSONCtx(http.MethodPost, "/v1/books/9780134190440/copies", `{"quantity":0}`, &u)
	c.SetParamNames("isbn")
	c.SetParamValues("9780134190440")

	require.NoError(t, h.AddCopies(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddCopiesBookNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM books WHERE isbn=?")).
		WithArgs("0000000000").
		WillReturnRows(sqlmock.NewRows(bookCols))

	h := testBookHandler(db)
	u := borrower()
	c, rec := newJSONCtx(http.MethodPost, "/v1/books/0000000000/copies", `{"quantity":2}`, &u)
	c.SetParamNames("isbn")
	c.SetParamValues("0000000000")

	require.NoError(t, h.AddCopies(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
