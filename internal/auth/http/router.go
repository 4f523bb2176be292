package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/service"
	"github.com/aussiebroadwan/idgate/internal/auth/store"
	"github.com/aussiebroadwan/idgate/pkg/authsdk"
	"github.com/aussiebroadwan/idgate/pkg/httpx"
	"github.com/aussiebroadwan/idgate/pkg/slogx"

	_ "github.com/aussiebroadwan/idgate/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService    *service.AuthService
	AccountService *service.AccountService
	Gate           *service.Gate

	// Rate limit profiles, read when ApplyRoutes runs.
	StrictLimit   httpx.RateLimitConfig
	ModerateLimit httpx.RateLimitConfig
	LenientLimit  httpx.RateLimitConfig
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		store:         st,
		logger:        logger,
		StrictLimit:   httpx.StrictLimit,
		ModerateLimit: httpx.ModerateLimit,
		LenientLimit:  httpx.LenientLimit,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
	r.Mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		authsdk.ErrNotFound.WriteError(w)
	})
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			IDGate Authentication Service API
//	@version		0.1.0
//	@description	Account registration, login and password lifecycle with stateless JWT access and refresh tokens.
//	@description
//	@description				Tokens are HS256-signed. Access and refresh tokens use separate secrets.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/idgate
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential endpoints - strict rate limit by IP
	r.Mux.Handle("POST /api/v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.StrictLimit),
		),
	)

	// Login is additionally bucketed per IP + target email
	r.Mux.Handle("POST /api/v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(r.StrictLimit),
			httpx.RateLimitByIPAndJSONField(r.StrictLimit, "email"),
		),
	)

	r.Mux.Handle("POST /api/v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(r.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/v1/auth/reset-link",
		httpx.Chain(http.HandlerFunc(h.HandleResetLink),
			httpx.RateLimitByIP(r.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/v1/auth/forgot-password",
		httpx.Chain(http.HandlerFunc(h.HandleForgotPassword),
			httpx.RateLimitByIP(r.StrictLimit),
		),
	)

	// Authenticated - moderate rate limit by account
	r.Mux.Handle("POST /api/v1/auth/change-password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
			r.requireRole(domain.RoleAdmin, domain.RoleUser),
			httpx.RateLimitByAccount(r.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{AccountService: r.AccountService}
	members := r.requireRole(domain.RoleAdmin, domain.RoleUser)

	// Reads - lenient rate limit by account
	r.Mux.Handle("GET /api/v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			members,
			httpx.RateLimitByAccount(r.LenientLimit),
		),
	)
	r.Mux.Handle("GET /api/v1/users/profile",
		httpx.Chain(http.HandlerFunc(h.HandleProfile),
			r.requireRole(),
			httpx.RateLimitByAccount(r.LenientLimit),
		),
	)
	r.Mux.Handle("GET /api/v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			members,
			httpx.RateLimitByAccount(r.LenientLimit),
		),
	)

	// Writes - moderate rate limit by account
	r.Mux.Handle("PATCH /api/v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			members,
			httpx.RateLimitByAccount(r.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /api/v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			members,
			httpx.RateLimitByAccount(r.ModerateLimit),
		),
	)

	admins := r.requireRole(domain.RoleAdmin)
	r.Mux.Handle("POST /api/v1/users/{id}/ban",
		httpx.Chain(http.HandlerFunc(h.HandleBan),
			admins,
			httpx.RateLimitByAccount(r.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /api/v1/users/{id}/unban",
		httpx.Chain(http.HandlerFunc(h.HandleUnban),
			admins,
			httpx.RateLimitByAccount(r.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /health",
		httpx.Chain(HealthHandler(r.buildVersion),
			httpx.RateLimitByIP(r.LenientLimit),
		),
	)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.tokens()),
			httpx.RateLimitByIP(r.LenientLimit),
		),
	)
}

func (r *Router) tokens() *service.TokenService {
	if r.Gate == nil {
		return nil
	}
	return r.Gate.Tokens
}
