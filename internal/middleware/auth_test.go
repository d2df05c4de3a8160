package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/library-service/internal/repository"
	"github.com/library-service/internal/utils"
)

const testSecret = "test-secret"

var userCols = []string{"id", "full_name", "email", "password", "card_number", "is_active", "is_staff", "is_superuser", "created_at", "updated_at"}

func userRow(email string, active, staff bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(userCols).
		AddRow(4, "Jordan Reader", email, "$argon2id$...", "LB-AB-12345678", active, staff, false, now, now)
}

func okHandler(c echo.Context) error {
	u, _ := CurrentUser(c)
	return c.JSON(http.StatusOK, echo.Map{"email": u.Email})
}

func doRequest(t *testing.T, users *repository.UserRepo, token string, chain ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := okHandler
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	require.NoError(t, Authenticate(testSecret, users, zap.NewNop())(h)(c))
	return rec
}

func TestAuthenticateMissingHeader(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := doRequest(t, repository.NewUserRepo(db), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestAuthenticateValidToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("reader@example.com").
		WillReturnRows(userRow("reader@example.com", true, false))

	at, err := utils.IssueToken(testSecret, "reader@example.com", 15)
	require.NoError(t, err)

	rec := doRequest(t, repository.NewUserRepo(db), at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reader@example.com")
}

func TestAuthenticateExpiredToken(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at, err := utils.IssueToken(testSecret, "reader@example.com", -1)
	require.NoError(t, err)

	rec := doRequest(t, repository.NewUserRepo(db), at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestAuthenticateUnknownSubject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	at, err := utils.IssueToken(testSecret, "ghost@example.com", 15)
	require.NoError(t, err)

	rec := doRequest(t, repository.NewUserRepo(db), at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestRequireActiveBlocksInactive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("reader@example.com").
		WillReturnRows(userRow("reader@example.com", false, false))

	at, err := utils.IssueToken(testSecret, "reader@example.com", 15)
	require.NoError(t, err)

	rec := doRequest(t, repository.NewUserRepo(db), at.Token, RequireActive)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "inactive account")
}

func TestRequireStaffBlocksNonStaff(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("reader@example.com").
		WillReturnRows(userRow("reader@example.com", true, false))

	at, err := utils.IssueToken(testSecret, "reader@example.com", 15)
	require.NoError(t, err)

	rec := doRequest(t, repository.NewUserRepo(db), at.Token, RequireActive, RequireStaff)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enough privileges")
}

func TestRequireStaffAllowsStaff(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("admin@example.com").
		WillReturnRows(userRow("admin@example.com", true, true))

	at, err := utils.IssueToken(testSecret, "admin@example.com", 15)
	require.NoError(t, err)

	rec := doRequest(t, repository.NewUserRepo(db), at.Token, RequireActive, RequireStaff)
	assert.Equal(t, http.StatusOK, rec.Code)
}
