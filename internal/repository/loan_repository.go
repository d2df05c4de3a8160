package repository

import (
	"context"
	"database/sql"

	"github.com/library-service/internal/model"
)

// LoanRepo provides access to the loans table. It is the only writer
// of loan rows; the checkout and return transitions always run inside
// a transaction shared with the copy status update.
type LoanRepo struct{ DB *sql.DB }

func NewLoanRepo(db *sql.DB) *LoanRepo { return &LoanRepo{DB: db} }

// CountActiveTx returns the number of ACTIVE loans held by a user,
// evaluated inside the caller's transaction so the eligibility check
// and the subsequent insert see the same state.
func (r *LoanRepo) CountActiveTx(ctx context.Context, tx *sql.Tx, userID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM loans WHERE user_id=? AND status=?",
		userID, model.LoanStatusActive).Scan(&n)
	return n, err
}

// CreateTx inserts a new loan and reads the stored row back into the
// provided record so the caller sees the database-assigned
// timestamps. A loan id collision maps to ErrDuplicateLoan.
func (r *LoanRepo) CreateTx(ctx context.Context, tx *sql.Tx, loan *model.Loan) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO loans (loan_id, user_id, bk_copy_barcode, status, due_at) VALUES (?,?,?,?,?)",
		loan.LoanID, loan.UserID, loan.CopyBarcode, loan.Status, loan.DueAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateLoan
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	loan.ID = uint64(id)
	var returnedAt sql.NullTime
	err = tx.QueryRowContext(ctx,
		"SELECT id,loan_id,user_id,bk_copy_barcode,status,checked_out_at,due_at,returned_at FROM loans WHERE id=?",
		loan.ID).Scan(&loan.ID, &loan.LoanID, &loan.UserID, &loan.CopyBarcode,
		&loan.Status, &loan.CheckedOutAt, &loan.DueAt, &returnedAt)
	if err != nil {
		return err
	}
	if returnedAt.Valid {
		t := returnedAt.Time
		loan.ReturnedAt = &t
	}
	return nil
}

// GetByLoanIDTx fetches a loan by its public loan id inside the
// transaction, locking the row for the return transition. Returns
// ErrLoanNotFound when the id is unknown.
func (r *LoanRepo) GetByLoanIDTx(ctx context.Context, tx *sql.Tx, loanID string) (model.Loan, error) {
	var l model.Loan
	var returnedAt sql.NullTime
	err := tx.QueryRowContext(ctx,
		"SELECT id,loan_id,user_id,bk_copy_barcode,status,checked_out_at,due_at,returned_at FROM loans WHERE loan_id=? LIMIT 1 FOR UPDATE",
		loanID).Scan(&l.ID, &l.LoanID, &l.UserID, &l.CopyBarcode,
		&l.Status, &l.CheckedOutAt, &l.DueAt, &returnedAt)
	if err == sql.ErrNoRows {
		return model.Loan{}, ErrLoanNotFound
	}
	if err != nil {
		return model.Loan{}, err
	}
	if returnedAt.Valid {
		t := returnedAt.Time
		l.ReturnedAt = &t
	}
	return l, nil
}

// CloseTx marks a loan RETURNED and stamps the return time.
func (r *LoanRepo) CloseTx(ctx context.Context, tx *sql.Tx, loanID string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE loans SET status=?, returned_at=UTC_TIMESTAMP() WHERE loan_id=?",
		model.LoanStatusReturned, loanID)
	return err
}
