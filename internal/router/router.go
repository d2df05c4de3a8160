package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/library-service/internal/handler"
	"github.com/library-service/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication:
// the health check probed by load balancers and the Prometheus
// scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterUsers registers the account endpoints. Sign-up and login
// are open; the profile endpoint requires a valid bearer token but
// works even for deactivated accounts so holders can still see their
// own state.
func RegisterUsers(e *echo.Echo, a *handler.AuthHandler, authn echo.MiddlewareFunc) {
	g := e.Group("/v1/users")
	g.POST("/sign-up", a.SignUp)
	g.POST("/login", a.Login)
	g.GET("/me", a.Me, authn)
}

// RegisterBooks registers the catalogue, inventory and lending
// endpoints. Routes compose the authorization gate in tiers:
// authenticated + active for borrower operations, plus the staff flag
// for catalogue and return management. The catalogue lookup
// additionally goes through the Redis response cache.
func RegisterBooks(e *echo.Echo, b *handler.BookHandler, l *handler.LoanHandler, authn, cache echo.MiddlewareFunc) {
	reader := []echo.MiddlewareFunc{authn, middleware.RequireActive}
	staff := []echo.MiddlewareFunc{authn, middleware.RequireActive, middleware.RequireStaff}

	e.GET("/v1/books", b.GetBookByISBN, append(append([]echo.MiddlewareFunc{}, reader...), cache)...)
	e.POST("/v1/books", b.CreateBook, staff...)
	e.PUT("/v1/books/:isbn", b.UpdateBook, staff...)
	e.POST("/v1/books/:isbn/copies", b.AddCopies, staff...)

	e.POST("/v1/books/:isbn/loan", l.LoanBook, reader...)
	e.POST("/v1/loans/return", l.ReturnLoan, staff...)
}
