package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tapfolio/tapfolio-backend/api/controllers"
	"github.com/tapfolio/tapfolio-backend/api/middleware"
	"github.com/tapfolio/tapfolio-backend/internal/auth"
	"github.com/tapfolio/tapfolio-backend/internal/cart"
	"github.com/tapfolio/tapfolio-backend/internal/catalog"
	checkoutsvc "github.com/tapfolio/tapfolio-backend/internal/checkout"
	"github.com/tapfolio/tapfolio-backend/internal/drafts"
	"github.com/tapfolio/tapfolio-backend/internal/media"
	"github.com/tapfolio/tapfolio-backend/internal/preview"
	"github.com/tapfolio/tapfolio-backend/internal/profiles"
	"github.com/tapfolio/tapfolio-backend/pkg/auth/session"
	"github.com/tapfolio/tapfolio-backend/pkg/config"
	"github.com/tapfolio/tapfolio-backend/pkg/logger"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps carries everything the router wires into handlers. Pingers feed the
// readiness probe; services back their route groups.
type Deps struct {
	Pingers  map[string]controllers.Pinger
	Sessions sessionManager

	Auth     auth.Service
	Catalog  catalog.Service
	Drafts   drafts.Service
	Profiles profiles.Service
	Cart     cart.Service
	Checkout checkoutsvc.Service
	Media    media.Service
	Renderer *preview.Renderer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Sessions, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public storefront surface: browsing and previewing require no account.
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Get("/{id}", controllers.GetProduct(deps.Catalog, logg))
		})
		r.Get("/templates", controllers.ListTemplates())
		r.Get("/icons", controllers.ListIcons())
		r.Post("/preview", controllers.RenderPreview(deps.Renderer, logg))
		r.Post("/customization/apply", controllers.ApplyCustomization(logg))
		r.Get("/profiles/{username}", controllers.LookupProfile(deps.Profiles, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Route("/drafts", func(r chi.Router) {
				r.Get("/", controllers.ListDrafts(deps.Drafts, logg))
				r.Post("/", controllers.CreateDraft(deps.Drafts, logg))
				r.Put("/{id}", controllers.UpdateDraft(deps.Drafts, logg))
				r.Patch("/{id}/customization", controllers.ApplyDraftCommand(deps.Drafts, logg))
				r.Delete("/{id}", controllers.DeleteDraft(deps.Drafts, logg))
			})

			r.Route("/me/profiles", func(r chi.Router) {
				r.Get("/", controllers.ListMyProfiles(deps.Profiles, logg))
				r.Post("/", controllers.ClaimProfile(deps.Profiles, logg))
				r.Get("/{id}", controllers.GetMyProfile(deps.Profiles, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Cart, logg))
				r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
				r.Patch("/items/{id}", controllers.UpdateCartItem(deps.Cart, logg))
				r.Delete("/items/{id}", controllers.RemoveCartItem(deps.Cart, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(deps.Checkout, logg))
				r.Post("/", controllers.SubmitOrder(deps.Checkout, logg))
				r.Get("/{id}", controllers.GetOrder(deps.Checkout, logg))
				r.Post("/{id}/cancel", controllers.CancelOrder(deps.Checkout, logg))
			})

			r.Route("/media", func(r chi.Router) {
				r.Post("/presign", controllers.PresignMedia(deps.Media, logg))
				r.Get("/{id}", controllers.GetMedia(deps.Media, logg))
			})
		})
	})

	return r
}
