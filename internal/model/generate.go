package model

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	digits  = "0123456789"
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewBookBarcode returns a fresh library barcode of the form
// BK-NNNNNNN (seven random digits).  Uniqueness is enforced by the
// database; a collision surfaces as a duplicate-key error on insert.
func NewBookBarcode() (string, error) {
	s, err := randomFrom(digits, 7)
	if err != nil {
		return "", err
	}
	return "BK-" + s, nil
}

// NewCardNumber returns a library card number of the form
// LB-XX-NNNNNNNN.
func NewCardNumber() (string, error) {
	id, err := randomID()
	if err != nil {
		return "", err
	}
	return "LB-" + id, nil
}

// NewLoanID returns a public loan identifier of the form
// LN-XX-NNNNNNNN.
func NewLoanID() (string, error) {
	id, err := randomID()
	if err != nil {
		return "", err
	}
	return "LN-" + id, nil
}

// CopyBarcode derives the barcode printed on a physical copy from
// the owning book's barcode and the copy serial.  Serials are
// zero-padded to three digits.
func CopyBarcode(bookBarcode string, serial uint32) string {
	return fmt.Sprintf("COPY-%s-%03d", bookBarcode, serial)
}

// randomID builds the shared XX-NNNNNNNN tail used by card numbers
// and loan ids: two random uppercase letters, a dash, eight random
// digits.
func randomID() (string, error) {
	lp, err := randomFrom(letters, 2)
	if err != nil {
		return "", err
	}
	np, err := randomFrom(digits, 8)
	if err != nil {
		return "", err
	}
	return lp + "-" + np, nil
}

// randomFrom picks n characters from the alphabet using the
// crypto/rand source.
func randomFrom(alphabet string, n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
