package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/library-service/internal/config"
	"github.com/library-service/internal/metrics"
	"github.com/library-service/internal/middleware"
	"github.com/library-service/internal/model"
	"github.com/library-service/internal/repository"
)

// LoanHandler groups repositories for the checkout and return flows.
// Both flows run their critical section inside a single transaction:
// the copy allocation (or lookup) locks the row, so the status flip
// and the loan write always agree.
type LoanHandler struct {
	Cfg    config.Config
	Books  *repository.BookRepo
	Copies *repository.CopyRepo
	Loans  *repository.LoanRepo
	Log    *zap.Logger
}

func NewLoanHandler(cfg config.Config, b *repository.BookRepo, cp *repository.CopyRepo, l *repository.LoanRepo, log *zap.Logger) *LoanHandler {
	if b == nil || cp == nil || l == nil || log == nil {
		panic("nil dependency passed to NewLoanHandler")
	}
	return &LoanHandler{Cfg: cfg, Books: b, Copies: cp, Loans: l, Log: log}
}

type returnLoanReq struct {
	LoanID      string `json:"loan_id"`
	CopyBarcode string `json:"bk_copy_barcode"`
}

// LoanBook handles POST /v1/books/:isbn/loan. It allocates the
// available copy with the lowest serial to the authenticated borrower.
// The eligibility check, the copy selection and the loan insert run in
// one transaction so two concurrent checkouts can neither exceed the
// loan cap nor take the same copy.
func (h *LoanHandler) LoanBook(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}
	isbn := strings.TrimSpace(c.Param("isbn"))
	if isbn == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid isbn"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	book, err := h.Books.GetByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
		}
		h.Log.Error("book lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	tx, err := h.Loans.DB.BeginTx(ctx, nil)
	if err != nil {
		h.Log.Error("begin transaction failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	active, err := h.Loans.CountActiveTx(ctx, tx, u.ID)
	if err != nil {
		h.Log.Error("count active loans failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if active >= h.Cfg.MaxActiveLoans {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "maximum number of active loans reached"})
	}

	copyRow, err := h.Copies.SelectAvailableTx(ctx, tx, book.ISBN)
	if err != nil {
		if errors.Is(err, repository.ErrNoAvailableCopy) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no available copies"})
		}
		h.Log.Error("copy selection failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	loanID, err := model.NewLoanID()
	if err != nil {
		h.Log.Error("generate loan id failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate loan id failed"})
	}
	loan := model.Loan{
		LoanID:      loanID,
		UserID:      u.ID,
		CopyBarcode: copyRow.Barcode,
		Status:      model.LoanStatusActive,
		DueAt:       time.Now().UTC().AddDate(0, 0, h.Cfg.LoanPeriodDays),
	}
	if err := h.Loans.CreateTx(ctx, tx, &loan); err != nil {
		if errors.Is(err, repository.ErrDuplicateLoan) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "loan id collision, retry the request"})
		}
		h.Log.Error("create loan failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create loan failed"})
	}
	if err := h.Copies.UpdateStatusTx(ctx, tx, copyRow.Barcode, model.CopyStatusBorrowed); err != nil {
		h.Log.Error("update copy failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update copy failed"})
	}
	if err := tx.Commit(); err != nil {
		h.Log.Error("commit failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	metrics.LoansCreated.Inc()
	publishAudit(c, model.EventCheckout, echo.Map{
		"loan_id":         loan.LoanID,
		"book_isbn":       book.ISBN,
		"bk_copy_barcode": copyRow.Barcode,
		"due_at":          loan.DueAt.Format(time.RFC3339),
	})

	copyRow.Status = model.CopyStatusBorrowed
	return c.JSON(http.StatusCreated, echo.Map{
		"loan":      loan,
		"book_copy": copyRow,
	})
}

// ReturnLoan handles POST /v1/loans/return. Staff scan the loan and
// the physical copy; the barcodes must agree before any state moves.
// The returned copy parks at IN_CHECK until a condition check, so a
// just-returned copy is never allocated to the next borrower.
func (h *LoanHandler) ReturnLoan(c echo.Context) error {
	var req returnLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.LoanID = strings.TrimSpace(req.LoanID)
	req.CopyBarcode = strings.TrimSpace(req.CopyBarcode)
	if req.LoanID == "" || req.CopyBarcode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "loan_id/bk_copy_barcode required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Loans.DB.BeginTx(ctx, nil)
	if err != nil {
		h.Log.Error("begin transaction failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	loan, err := h.Loans.GetByLoanIDTx(ctx, tx, req.LoanID)
	if err != nil {
		if errors.Is(err, repository.ErrLoanNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "loan not found"})
		}
		h.Log.Error("loan lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if req.CopyBarcode != loan.CopyBarcode {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "copy barcode does not match the loan"})
	}
	// A closed loan must never re-park its copy at IN_CHECK; the copy
	// may already be back in circulation.
	if loan.Status != model.LoanStatusActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "loan is not active"})
	}

	copyRow, err := h.Copies.GetByBarcodeTx(ctx, tx, req.CopyBarcode)
	if err != nil {
		if errors.Is(err, repository.ErrCopyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book copy not found"})
		}
		h.Log.Error("copy lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Copies.UpdateStatusTx(ctx, tx, copyRow.Barcode, model.CopyStatusInCheck); err != nil {
		h.Log.Error("update copy failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update copy failed"})
	}
	if err := h.Loans.CloseTx(ctx, tx, loan.LoanID); err != nil {
		h.Log.Error("close loan failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "close loan failed"})
	}
	if err := tx.Commit(); err != nil {
		h.Log.Error("commit failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	metrics.LoansReturned.Inc()
	publishAudit(c, model.EventReturn, echo.Map{
		"loan_id":         loan.LoanID,
		"bk_copy_barcode": copyRow.Barcode,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "loan cleared, copy awaiting check",
		"loan_id": loan.LoanID,
	})
}
