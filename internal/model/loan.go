package model

import "time"

// Loan statuses.  Only ACTIVE and RETURNED are produced by the
// checkout/return flows; LOST and OVERDUE exist for downstream
// maintenance tooling.
const (
	LoanStatusActive   = "ACTIVE"
	LoanStatusReturned = "RETURNED"
	LoanStatusLost     = "LOST"
	LoanStatusOverdue  = "OVERDUE"
)

// Loan binds a user to one physical copy for a bounded period, as
// stored in the `loans` table.  The copy is referenced by its
// barcode rather than its row id so that the loan record matches
// what is printed on the physical item.
//
// Fields:
//  ID           – primary key identifier.
//  LoanID       – unique generated public identifier (LN-XX-NNNNNNNN).
//  UserID       – borrower.
//  CopyBarcode  – barcode of the borrowed copy.
//  Status       – one of the LoanStatus* constants.
//  CheckedOutAt – checkout timestamp.
//  DueAt        – checkout plus the configured loan period.
//  ReturnedAt   – set when the loan is closed (nullable).
type Loan struct {
	ID           uint64     `json:"id"`              // loans.id
	LoanID       string     `json:"loan_id"`         // loans.loan_id
	UserID       uint64     `json:"user_id"`         // loans.user_id
	CopyBarcode  string     `json:"bk_copy_barcode"` // loans.bk_copy_barcode
	Status       string     `json:"status"`          // loans.status
	CheckedOutAt time.Time  `json:"checked_out_at"`  // loans.checked_out_at
	DueAt        time.Time  `json:"due_at"`          // loans.due_at
	ReturnedAt   *time.Time `json:"returned_at"`     // loans.returned_at (nullable)
}
