package model

import "time"

// Book describes a title in the catalogue as stored in the `books`
// table.  A book is the logical work; physical instances live in
// the `book_copies` table and reference the book by ISBN.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – unique title of the work.
//  Author         – author name.
//  ISBN           – unique ISBN string.
//  LibraryBarcode – unique generated barcode (BK-NNNNNNN).
//  Available      – whether the title is offered for lending at all.
//  Location       – shelf/section location inside the library.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Book struct {
	ID             uint64    `json:"id"`              // books.id
	Title          string    `json:"title"`           // books.title
	Author         string    `json:"author"`          // books.author
	ISBN           string    `json:"isbn"`            // books.isbn
	LibraryBarcode string    `json:"library_barcode"` // books.library_barcode
	Available      bool      `json:"available"`       // books.available
	Location       string    `json:"location"`        // books.location
	CreatedAt      time.Time `json:"created_at"`      // books.created_at
	UpdatedAt      time.Time `json:"updated_at"`      // books.updated_at
}

// BookUpdate carries a partial update for a book.  Nil fields are
// left untouched; only non-nil fields are written.
type BookUpdate struct {
	Title     *string `json:"title"`
	Author    *string `json:"author"`
	Location  *string `json:"location"`
	Available *bool   `json:"available"`
}
