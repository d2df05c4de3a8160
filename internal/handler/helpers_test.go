package handler

import (
	"database/sql"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/library-service/internal/config"
	"github.com/library-service/internal/model"
	"github.com/library-service/internal/repository"
)

var (
	bookCols = []string{"id", "title", "author", "isbn", "library_barcode", "available", "location", "created_at", "updated_at"}
	copyCols = []string{"id", "book_isbn", "serial", "copy_barcode", "status"}
	loanCols = []string{"id", "loan_id", "user_id", "bk_copy_barcode", "status", "checked_out_at", "due_at", "returned_at"}
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		MaxActiveLoans: 3,
		LoanPeriodDays: 7,
	}
}

func testAuthHandler(db *sql.DB) *AuthHandler {
	return NewAuthHandler(testConfig(), repository.NewUserRepo(db), zap.NewNop())
}

func testBookHandler(db *sql.DB) *BookHandler {
	return NewBookHandler(repository.NewBookRepo(db), repository.NewCopyRepo(db), zap.NewNop(), config.CacheConfig{}, nil)
}

func testLoanHandler(db *sql.DB) *LoanHandler {
	return NewLoanHandler(testConfig(), repository.NewBookRepo(db), repository.NewCopyRepo(db), repository.NewLoanRepo(db), zap.NewNop())
}

func borrower() model.User {
	return model.User{
		ID:         4,
		FullName:   "Jordan Reader",
		Email:      "reader@example.com",
		CardNumber: "LB-AB-12345678",
		IsActive:   true,
	}
}

// newJSONCtx builds an echo context carrying a JSON body and an
// authenticated user, mirroring what the middleware chain provides.
func newJSONCtx(method, target, body string, u *model.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if u != nil {
		c.Set("current_user", *u)
	}
	return c, rec
}

func bookRow() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(bookCols).
		AddRow(1, "The Go Programming Language", "Alan Donovan", "9780134190440", "BK-1234567", true, "shelf A3", now, now)
}
