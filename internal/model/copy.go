package model

// Copy statuses.  AVAILABLE copies can be allocated to a loan.
// BORROWED copies are out with a borrower.  Returned copies park at
// IN_CHECK until a condition check puts them back into circulation.
const (
	CopyStatusAvailable = "AVAILABLE"
	CopyStatusBorrowed  = "BORROWED"
	CopyStatusLost      = "LOST"
	CopyStatusInCheck   = "IN_CHECK"
)

// BookCopy is one physical instance of a book as stored in the
// `book_copies` table.  Copies are numbered per book with a serial
// that starts at 1 and only ever grows; the copy barcode is derived
// from the book's library barcode plus the serial.
//
// Fields:
//  ID       – primary key identifier.
//  BookISBN – ISBN of the owning book.
//  Serial   – per-book serial number, unique within the book.
//  Barcode  – derived barcode (COPY-<book_barcode>-NNN).
//  Status   – one of the CopyStatus* constants.
type BookCopy struct {
	ID       uint64 `json:"id"`          // book_copies.id
	BookISBN string `json:"book_isbn"`   // book_copies.book_isbn
	Serial   uint32 `json:"serial"`      // book_copies.serial
	Barcode  string `json:"copy_barcode"` // book_copies.copy_barcode
	Status   string `json:"status"`      // book_copies.status
}
