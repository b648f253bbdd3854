package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/shift-scheduler/api"
	"github.com/frahmantamala/shift-scheduler/internal/auth"
	"github.com/frahmantamala/shift-scheduler/internal/department"
	"github.com/frahmantamala/shift-scheduler/internal/export"
	"github.com/frahmantamala/shift-scheduler/internal/notification"
	"github.com/frahmantamala/shift-scheduler/internal/shift"
	"github.com/frahmantamala/shift-scheduler/internal/template"
	"github.com/frahmantamala/shift-scheduler/internal/transport/middleware"
	"github.com/frahmantamala/shift-scheduler/internal/transport/swagger"
	"github.com/frahmantamala/shift-scheduler/internal/user"
)

const (
	APIPrefix   = "/api"
	APIV1Prefix = "/api/v1"
)

type Handlers struct {
	Auth          *auth.Handler
	RBAC          *auth.RBACAuthorization
	Users         *user.Handler
	Shifts        *shift.Handler
	Templates     *template.Handler
	Notifications *notification.Handler
	Departments   *department.Handler
	Export        *export.Handler
	Health        *HealthHandler
}

// NewRouter serves every route under /api and again under /api/v1.
func NewRouter(h Handlers, origins []string, lg *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(lg))
	router.Use(middleware.CORS(origins))
	router.Use(middleware.Logging)

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Document())
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route(APIV1Prefix, func(r chi.Router) { registerAPI(r, h) })
	router.Route(APIPrefix, func(r chi.Router) { registerAPI(r, h) })

	return router
}

func registerAPI(r chi.Router, h Handlers) {
	r.Get("/health", h.Health.Health)
	r.Get("/ping", h.Health.Ping)

	r.Post("/register", h.Auth.Register)
	r.Post("/login", h.Auth.Login)

	r.Group(func(pr chi.Router) {
		pr.Use(h.Auth.AuthMiddleware)

		pr.Group(func(ar chi.Router) {
			ar.Use(h.RBAC.RequireUserAdmin())
			ar.Get("/users", h.Users.ListUsers)
			ar.Post("/users", h.Users.CreateUser)
			ar.Delete("/users/{id}", h.Users.DeleteUser)
		})

		pr.Get("/shifts", h.Shifts.GetShifts)
		pr.Post("/shifts", h.Shifts.CreateShift)
		pr.Delete("/shifts/{id}", h.Shifts.DeleteShift)
		pr.With(h.RBAC.RequireApproveShift()).Put("/shifts/{id}/approve", h.Shifts.ApproveShift)
		pr.With(h.RBAC.RequireRejectShift()).Put("/shifts/{id}/reject", h.Shifts.RejectShift)
		pr.Get("/search", h.Shifts.SearchShifts)

		pr.Get("/templates", h.Templates.GetTemplates)
		pr.Post("/templates", h.Templates.CreateTemplate)
		pr.Get("/templates/{id}", h.Templates.GetTemplate)
		pr.Put("/templates/{id}", h.Templates.UpdateTemplate)
		pr.Delete("/templates/{id}", h.Templates.DeleteTemplate)

		pr.Get("/notifications", h.Notifications.List)
		pr.Put("/notifications/read-all", h.Notifications.MarkAllRead)
		pr.Put("/notifications/{id}/read", h.Notifications.MarkRead)

		pr.Get("/departments", h.Departments.GetDepartments)
		pr.Get("/export/csv", h.Export.ExportCSV)
	})
}
