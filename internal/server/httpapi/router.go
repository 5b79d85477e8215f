// Package httpapi is the JSON-over-HTTP surface of the auth core.
package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/clubevent/internal/logging"
	"github.com/dmitrijs2005/clubevent/internal/server/models"
	"github.com/gorilla/mux"
)

// NewRouter wires every route. metricsHandler may be nil.
func NewRouter(as AuthService, ps PromotionService, log logging.Logger, metricsHandler http.Handler) *mux.Router {
	h := &handler{auth: as, promo: ps, log: log}

	r := mux.NewRouter()
	r.Use(accessLog(log))

	r.HandleFunc("/healthz", health).Methods(http.MethodGet)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	public := api.NewRoute().Subrouter()
	public.HandleFunc("/auth/student/login", h.login(models.VariantStudent)).Methods(http.MethodPost)
	public.HandleFunc("/auth/admin/login", h.login(models.VariantAdmin)).Methods(http.MethodPost)
	public.HandleFunc("/auth/faculty/login", h.login(models.VariantFaculty)).Methods(http.MethodPost)
	public.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	public.HandleFunc("/admin/signup", h.adminSignup).Methods(http.MethodPost)

	gate := AuthGate(as, log)

	authed := api.NewRoute().Subrouter()
	authed.Use(gate)
	authed.HandleFunc("/auth/me", h.me).Methods(http.MethodGet)

	faculty := api.PathPrefix("/faculty").Subrouter()
	faculty.Use(gate, RequireRoles(models.RoleFaculty))
	faculty.HandleFunc("/admins", h.listAdmins).Methods(http.MethodGet)
	faculty.HandleFunc("/admins", h.createAdmin).Methods(http.MethodPost)
	faculty.HandleFunc("/admins/{adminId}", h.demote).Methods(http.MethodDelete)
	faculty.HandleFunc("/promote", h.promote).Methods(http.MethodPost)

	return r
}
