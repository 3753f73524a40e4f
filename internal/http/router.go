package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authHandler "github.com/lbrossard/indivis/internal/http/auth"
	"github.com/lbrossard/indivis/internal/http/estate"
	"github.com/lbrossard/indivis/internal/http/fraction"
	"github.com/lbrossard/indivis/internal/http/importcsv"
	"github.com/lbrossard/indivis/internal/http/operation"
	"github.com/lbrossard/indivis/internal/http/transfer"
)

func New(
	authV1 *authHandler.Handler,
	authMW *authHandler.Middleware,
	operationsV1 *operation.Handler,
	fractionsV1 *fraction.Handler,
	estateV1 *estate.Handler,
	transfersV1 *transfer.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", authV1.Routes)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Require)
			r.Use(authMW.RequireWrite)

			r.Route("/operations", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				operationsV1.Routes(r)
			})

			r.Route("/transfers", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transfersV1.Routes(r)
			})

			r.Route("/owners", estateV1.OwnerRoutes)

			r.Route("/lots", func(r chi.Router) {
				estateV1.LotRoutes(r)
				r.Route("/{lotID}", fractionsV1.Routes)
			})
			r.Route("/accounts", estateV1.AccountRoutes)
			r.Route("/categories", estateV1.CategoryRoutes)

			r.Route("/import", importV1.Routes)
		})
	})

	return router
}
