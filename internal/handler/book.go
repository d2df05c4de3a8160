package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/library-service/internal/config"
	"github.com/library-service/internal/metrics"
	"github.com/library-service/internal/middleware"
	"github.com/library-service/internal/model"
	"github.com/library-service/internal/queue"
	"github.com/library-service/internal/repository"
	queue_publisher "github.com/library-service/internal/service"
)

// maxCopiesPerBatch bounds a single inventory batch so one request
// cannot build an arbitrarily large INSERT statement.
const maxCopiesPerBatch = 100

// BookHandler groups repositories for catalogue and inventory
// endpoints. All methods assume authentication and staff validation
// has already been performed by middleware. The Redis client is
// optional; without it the lookup cache is simply never invalidated
// because nothing populates it either.
type BookHandler struct {
	Books    *repository.BookRepo
	Copies   *repository.CopyRepo
	Log      *zap.Logger
	CacheCfg config.CacheConfig
	RDB      *redis.Client
}

func NewBookHandler(b *repository.BookRepo, cp *repository.CopyRepo, log *zap.Logger, cacheCfg config.CacheConfig, rdb *redis.Client) *BookHandler {
	if b == nil || cp == nil || log == nil {
		panic("nil dependency passed to NewBookHandler")
	}
	return &BookHandler{Books: b, Copies: cp, Log: log, CacheCfg: cacheCfg, RDB: rdb}
}

// ----- DTOs -----

type createBookReq struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	ISBN     string `json:"isbn"`
	Location string `json:"location"`
}

type addCopiesReq struct {
	Quantity int `json:"quantity"`
}

// CreateBook handles POST /v1/books. Title, ISBN and the generated
// barcode are all unique, so any collision answers 409.
func (h *BookHandler) CreateBook(c echo.Context) error {
	var req createBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Author) == "" || strings.TrimSpace(req.ISBN) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/author/isbn required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	book, err := h.Books.Create(ctx, req.Title, req.Author, req.ISBN, req.Location)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateBook) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "book already exists"})
		}
		h.Log.Error("create book failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create book failed"})
	}

	metrics.BooksCreated.Inc()
	publishAudit(c, model.EventCreateBook, echo.Map{
		"isbn":            book.ISBN,
		"title":           book.Title,
		"library_barcode": book.LibraryBarcode,
	})

	return c.JSON(http.StatusCreated, book)
}

// GetBookByISBN handles GET /v1/books?isbn=. Responses are cached by
// the Redis middleware, keyed on the query string.
func (h *BookHandler) GetBookByISBN(c echo.Context) error {
	isbn := strings.TrimSpace(c.QueryParam("isbn"))
	if isbn == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "isbn query parameter required"})
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
	return c.JSON(http.StatusOK, book)
}

// UpdateBook handles PUT /v1/books/:isbn. Only fields present in the
// body are written; the ISBN itself is immutable.
func (h *BookHandler) UpdateBook(c echo.Context) error {
	isbn := strings.TrimSpace(c.Param("isbn"))
	if isbn == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid isbn"})
	}
	var upd model.BookUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Books.Update(ctx, isbn, upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
		case errors.Is(err, repository.ErrDuplicateBook):
			return c.JSON(http.StatusConflict, echo.Map{"error": "title already exists"})
		default:
			h.Log.Error("update book failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update book failed"})
		}
	}

	h.invalidateLookup(ctx, isbn)
	return c.NoContent(http.StatusNoContent)
}

// invalidateLookup drops the cached catalogue lookup for an ISBN so a
// staff update is visible immediately rather than after the cache TTL.
func (h *BookHandler) invalidateLookup(ctx context.Context, isbn string) {
	if h.RDB == nil || !h.CacheCfg.Enabled {
		return
	}
	key := middleware.CacheKey(h.CacheCfg, "/v1/books", "isbn="+url.QueryEscape(isbn))
	if err := h.RDB.Del(ctx, key).Err(); err != nil {
		h.Log.Warn("cache invalidation failed", zap.String("isbn", isbn), zap.Error(err))
	}
}

// AddCopies handles POST /v1/books/:isbn/copies. Serial numbers
// continue from the highest existing serial, read and written in one
// transaction so concurrent batches cannot interleave.
func (h *BookHandler) AddCopies(c echo.Context) error {
	isbn := strings.TrimSpace(c.Param("isbn"))
	if isbn == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid isbn"})
	}
	var req addCopiesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be at least 1"})
	}
	if req.Quantity > maxCopiesPerBatch {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("quantity must be at most %d", maxCopiesPerBatch)})
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

	tx, err := h.Copies.DB.BeginTx(ctx, nil)
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

	last, err := h.Copies.LastSerialTx(ctx, tx, book.ISBN)
	if err != nil {
		h.Log.Error("serial lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	copies := make([]model.BookCopy, 0, req.Quantity)
	for i := 1; i <= req.Quantity; i++ {
		serial := last + uint32(i)
		copies = append(copies, model.BookCopy{
			BookISBN: book.ISBN,
			Serial:   serial,
			Barcode:  model.CopyBarcode(book.LibraryBarcode, serial),
			Status:   model.CopyStatusAvailable,
		})
	}
	if err := h.Copies.CreateBulkTx(ctx, tx, copies); err != nil {
		if errors.Is(err, repository.ErrDuplicateCopy) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "copy barcode collision, retry the batch"})
		}
		h.Log.Error("create copies failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create copies failed"})
	}
	if err := tx.Commit(); err != nil {
		h.Log.Error("commit failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	metrics.CopiesCreated.Add(float64(len(copies)))

	return c.JSON(http.StatusCreated, echo.Map{
		"book_isbn": book.ISBN,
		"created":   len(copies),
		"copies":    copies,
	})
}

// publishAudit fires an audit event for the acting user in the
// background so broker latency never sits inside a request. Publish
// failures are logged by the publisher and dropped.
func publishAudit(c echo.Context, event string, details echo.Map) {
	actor := "system"
	if u, ok := middleware.CurrentUser(c); ok {
		actor = u.CardNumber
	}
	body, err := json.Marshal(details)
	if err != nil {
		return
	}
	ev := queue.AuditEvent{
		ActorID: actor,
		Event:   event,
		Details: body,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishAuditEvent(ctx, ev)
	}()
}
