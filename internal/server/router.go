package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/diewo77/go-directory/internal/auth"
	"github.com/diewo77/go-directory/internal/config"
	"github.com/diewo77/go-directory/internal/gate"
	"github.com/diewo77/go-directory/internal/handlers"
	"github.com/diewo77/go-directory/internal/httpx"
	"github.com/diewo77/go-directory/internal/middleware"
	"github.com/diewo77/go-directory/internal/policy"
	"github.com/diewo77/go-directory/internal/ratelimit"
	"github.com/diewo77/go-directory/internal/services"
	"github.com/diewo77/go-directory/internal/services/imagegen"
	"github.com/diewo77/go-directory/internal/services/mailer"
	"github.com/diewo77/go-directory/internal/services/otp"
	"gorm.io/gorm"
)

// Deps are the collaborators the router needs. Nil stores, mailer,
// generator and limiters fall back to process-local implementations.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	OTP    otp.Store
	Mailer mailer.Mailer
	Images handlers.ImageGenerator

	LoginLimiter   ratelimit.Limiter
	EnquiryLimiter ratelimit.Limiter
	ImageLimiter   ratelimit.Limiter
}

func (d *Deps) defaults() {
	cfg := d.Config
	if d.OTP == nil {
		d.OTP = otp.NewMemoryStore(cfg.Auth.OTPTTL, cfg.Auth.OTPMaxAttempts)
	}
	if d.Mailer == nil {
		d.Mailer = mailer.LogMailer{}
	}
	if d.Images == nil {
		d.Images = imagegen.New(cfg.AI)
	}
	if d.LoginLimiter == nil {
		d.LoginLimiter = ratelimit.NewMemory(cfg.Auth.LoginRatePerMin, time.Minute)
	}
	if d.EnquiryLimiter == nil {
		d.EnquiryLimiter = ratelimit.NewMemory(cfg.App.EnquiryRatePerMin, time.Minute)
	}
	if d.ImageLimiter == nil {
		d.ImageLimiter = ratelimit.NewMemory(cfg.AI.RatePerMin, time.Minute)
	}
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) http.Handler {
	d.defaults()
	db, cfg := d.DB, d.Config
	mux := http.NewServeMux()

	sessions := services.NewSessionService(db, cfg.Auth.SessionTTL)
	auth.SetSecret(cfg.Auth.SessionSecret)
	auth.SetSecureCookies(cfg.Auth.CookieSecure)
	auth.SetSessionVerifier(sessions.Verify)

	ag := policy.NewAuthGate(db, cfg.Auth.ProfileCacheTTL)
	admin := func(h http.HandlerFunc) http.Handler { return ag.RequireAdmin()(h) }
	can := func(resource string, action gate.Action, h http.HandlerFunc) http.Handler {
		return ag.RequirePermission(resource, action)(h)
	}
	limit := func(l ratelimit.Limiter, h http.Handler) http.Handler {
		return ratelimit.Middleware(l, time.Minute)(h)
	}

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Catalogue
	ch := handlers.NewCategoryHandler(db)
	mux.HandleFunc("GET /api/categories", ch.List)
	mux.Handle("POST /api/categories", can("category", gate.ActionCreate, ch.Create))
	mux.Handle("PATCH /api/categories", can("category", gate.ActionUpdate, ch.Update))
	mux.Handle("DELETE /api/categories", can("category", gate.ActionDelete, ch.Delete))

	bh := handlers.NewBusinessHandler(db)
	mux.HandleFunc("GET /api/businesses", bh.List)
	mux.Handle("POST /api/businesses", can("business", gate.ActionCreate, bh.Create))
	mux.Handle("PATCH /api/businesses", can("business", gate.ActionUpdate, bh.ToggleVerify))
	mux.Handle("DELETE /api/businesses", can("business", gate.ActionDelete, bh.Delete))
	mux.HandleFunc("GET /api/businesses/{id}", bh.Get)
	mux.Handle("PATCH /api/businesses/{id}", can("business", gate.ActionUpdate, bh.Update))

	lh := handlers.NewLeadHandler(db)
	mux.Handle("POST /api/businesses/{id}/enquiries", limit(d.EnquiryLimiter, http.HandlerFunc(lh.Create)))

	// Admin console
	mux.Handle("GET /api/admin/leads", can("enquiry", gate.ActionList, lh.List))
	mux.Handle("PATCH /api/admin/leads", can("enquiry", gate.ActionUpdate, lh.UpdateStatus))
	mux.Handle("DELETE /api/admin/leads", can("enquiry", gate.ActionDelete, lh.Delete))

	rh := handlers.NewReviewHandler(db)
	mux.Handle("GET /api/admin/reviews", can("review", gate.ActionList, rh.List))
	mux.Handle("DELETE /api/admin/reviews", can("review", gate.ActionDelete, rh.Delete))

	sh := handlers.NewSettingsHandler(db)
	mux.Handle("GET /api/admin/settings", can("settings", gate.ActionView, sh.Get))
	mux.Handle("PATCH /api/admin/settings", can("settings", gate.ActionUpdate, sh.Update))

	uh := handlers.NewUserHandler(db, sessions, ag)
	mux.Handle("GET /api/admin/users", can("user", gate.ActionList, uh.List))
	mux.Handle("POST /api/admin/users", can("user", gate.ActionCreate, uh.Create))
	mux.Handle("PATCH /api/admin/users", can("user", gate.ActionUpdate, uh.Update))
	mux.Handle("DELETE /api/admin/users", can("user", gate.ActionDelete, uh.Delete))

	anh := handlers.NewAnalyticsHandler(db)
	mux.Handle("GET /api/admin/analytics", can("analytics", gate.ActionView, anh.Get))
	mux.Handle("GET /api/admin/analytics/report.pdf", can("analytics", gate.ActionView, anh.Report))

	nh := handlers.NewNotificationHandler(db)
	mux.Handle("GET /api/admin/notifications", can("notification", gate.ActionList, nh.List))

	// Admin login
	ah := handlers.NewAuthHandler(db, sessions, d.OTP, d.Mailer, cfg.Auth.OTPTTL)
	mux.Handle("POST /api/admin/login", limit(d.LoginLimiter, http.HandlerFunc(ah.Login)))
	mux.Handle("POST /api/admin/logout", admin(ah.Logout))
	mux.Handle("GET /api/admin/me", admin(ah.Me))

	ih := handlers.NewImageHandler(d.Images)
	mux.Handle("POST /api/generate-image", can("image", gate.ActionCreate, limit(d.ImageLimiter, http.HandlerFunc(ih.Generate)).ServeHTTP))

	return withRecover(withLogging(middleware.CORS(cfg.CORS.AllowedOrigins)(auth.Middleware(mux))))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic", "path", r.URL.Path, "panic", rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
