package rest

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/gastaro/gastaro/internal/attachment"
	"github.com/gastaro/gastaro/internal/auth"
	"github.com/gastaro/gastaro/internal/dashboard"
	"github.com/gastaro/gastaro/internal/expense"
	"github.com/gastaro/gastaro/internal/income"
	"github.com/gastaro/gastaro/internal/notification"
	"github.com/gastaro/gastaro/internal/pay"
	"github.com/gastaro/gastaro/internal/sharedexpense"
	"github.com/gastaro/gastaro/internal/transport/middleware"
	"github.com/gastaro/gastaro/internal/transport/swagger"
	"github.com/gastaro/gastaro/internal/user"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth          *auth.Handler
	User          *user.Handler
	Expense       *expense.Handler
	Income        *income.Handler
	SharedExpense *sharedexpense.Handler
	Notification  *notification.Handler
	Pay           *pay.Handler
	Dashboard     *dashboard.Handler
	Attachment    *attachment.Handler
}

// NewRouter builds the full route tree. Everything under /api/v1 except
// login, register and token refresh requires a valid access token.
func NewRouter(h Handlers, db *sql.DB, openAPISpec []byte) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS)

	health := NewHealthHandler(db)
	r.Get("/ping", health.pingHandler)
	r.Get("/health", health.healthCheckHandler)

	r.Get("/openapi.yml", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(openAPISpec)
	})
	r.Mount("/swagger", swagger.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/refresh", h.Auth.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.AuthMiddleware)

			r.Post("/auth/logout", h.Auth.Logout)

			r.Get("/users/me", h.User.GetCurrentUser)
			r.Get("/users/search", h.User.SearchByCode)
			r.Patch("/users/me/currency", h.User.UpdateCurrency)

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", h.Expense.CreateExpense)
				r.Get("/", h.Expense.ListExpenses)
				r.Get("/{id}", h.Expense.GetExpense)
				r.Put("/{id}", h.Expense.UpdateExpense)
				r.Delete("/{id}", h.Expense.DeleteExpense)
			})

			r.Route("/incomes", func(r chi.Router) {
				r.Post("/", h.Income.CreateIncome)
				r.Get("/", h.Income.ListIncomes)
				r.Get("/{id}", h.Income.GetIncome)
				r.Put("/{id}", h.Income.UpdateIncome)
				r.Delete("/{id}", h.Income.DeleteIncome)
			})

			r.Route("/shared-expenses", func(r chi.Router) {
				r.Post("/", h.SharedExpense.CreateProposal)
				r.Get("/", h.SharedExpense.ListProposals)
				r.Post("/{id}/accept", h.SharedExpense.Accept)
				r.Post("/{id}/reject", h.SharedExpense.Reject)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.ListNotifications)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/{id}/read", h.Notification.MarkRead)
				r.Post("/read-all", h.Notification.MarkAllRead)
			})

			r.Post("/pay", h.Pay.SendPayment)

			r.Get("/dashboard", h.Dashboard.GetSummary)

			r.Route("/attachments", func(r chi.Router) {
				r.Post("/", h.Attachment.Upload)
				r.Get("/{ref}", h.Attachment.Download)
			})
		})
	})

	return r
}
