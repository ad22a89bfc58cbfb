package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/terracehq/terrace-auth/internal/auth/service"
	"github.com/terracehq/terrace-auth/internal/auth/store"
	"github.com/terracehq/terrace-auth/pkg/httpx"
	"github.com/terracehq/terrace-auth/pkg/slogx"

	_ "github.com/terracehq/terrace-auth/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	SessionService *service.SessionService
	LoginService   *service.LoginService
	ResetService   *service.ResetService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerPasswordReset()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Terrace Authentication Service API
//	@version		0.1.0
//	@description	Cookie-based session authentication: email/password login, signed
//	@description	session tokens, and a single-use password reset workflow.
//
//	@contact.name	Terrace Team
//	@contact.url	https://github.com/terracehq/terrace-auth
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	loginHandler := &LoginHandler{
		LoginService:   r.LoginService,
		SessionService: r.SessionService,
	}

	// POST /login - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - lenient; clearing a cookie is harmless
	logoutHandler := &LogoutHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /v1/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /session - lenient; apps poll this on page load
	sessionHandler := &SessionHandler{SessionService: r.SessionService}
	r.Mux.Handle("GET /v1/session",
		httpx.Chain(sessionHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerPasswordReset() {
	requestHandler := &ResetRequestHandler{ResetService: r.ResetService}
	landingHandler := &ResetLandingHandler{ResetService: r.ResetService}

	// POST /password-reset - strict rate limit by IP (sends mail)
	r.Mux.Handle("POST /v1/password-reset",
		httpx.Chain(requestHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /password-reset/{code} - strict; lookups probe code validity
	r.Mux.Handle("GET /v1/password-reset/{code}",
		httpx.Chain(http.HandlerFunc(landingHandler.HandleLookup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /password-reset/{code} - strict; consumes the code
	r.Mux.Handle("POST /v1/password-reset/{code}",
		httpx.Chain(http.HandlerFunc(landingHandler.HandleConsume),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.SessionService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
