// Package metrics exposes Prometheus counters for the lending domain.
// The counters are registered on the default registry and served by
// the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoansCreated counts successful checkouts.
	LoansCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "library_loans_created_total",
		Help: "Number of loans successfully created.",
	})

	// LoansReturned counts successful returns.
	LoansReturned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "library_loans_returned_total",
		Help: "Number of loans successfully closed by a return.",
	})

	// BooksCreated counts catalogue registrations.
	BooksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "library_books_created_total",
		Help: "Number of books registered in the catalogue.",
	})

	// CopiesCreated counts physical copies added to the inventory.
	CopiesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "library_book_copies_created_total",
		Help: "Number of physical copies added to the inventory.",
	})
)
