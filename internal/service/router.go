package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/junman99/fingrow-sub006/internal/auth"
	"github.com/junman99/fingrow-sub006/internal/middleware"
	"github.com/junman99/fingrow-sub006/internal/storage"
)

// NewRouter assembles the full HTTP API. Everything under /api/groups
// requires a valid bearer token; /api/auth, /metrics and /healthz are open.
func NewRouter(store storage.Store, authenticator auth.Authenticator, jwtManager *auth.JWTManager) http.Handler {
	locks := newGroupLocks()

	authSvc := NewAuthService(authenticator, jwtManager)
	groupSvc := NewGroupService(store, locks)
	billSvc := NewBillService(store, locks)
	settlementSvc := NewSettlementService(store, locks)

	r := chi.NewRouter()
	r.Use(middleware.Logging)
	r.Use(middleware.CORS)
	r.Use(middleware.Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", authSvc.Routes())

		r.Route("/groups", func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Post("/", groupSvc.handleCreate)
			r.Get("/", groupSvc.handleList)

			r.Route("/{groupID}", func(r chi.Router) {
				r.Get("/", groupSvc.handleGet)
				r.Post("/members", groupSvc.handleAddMembers)
				r.Delete("/members/{memberID}", groupSvc.handleArchiveMember)

				r.Route("/bills", func(r chi.Router) {
					r.Post("/", billSvc.handleCreate)
					r.Get("/", billSvc.handleList)
					r.Get("/{billID}", billSvc.handleGet)
					r.Delete("/{billID}", billSvc.handleDelete)
					r.Post("/{billID}/splits/{memberID}/settle", billSvc.handleSettleSplit)
				})

				r.Get("/balances", settlementSvc.handleBalances)
				r.Get("/plan", settlementSvc.handlePlan)
				r.Post("/settlements", settlementSvc.handleRecord)
				r.Post("/settlements/plan", settlementSvc.handleApplyPlan)
			})
		})
	})

	return r
}
