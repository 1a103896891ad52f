package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"time"

	"clubes/internal/adapters/email"
	"clubes/internal/adapters/http/middleware"
	"clubes/internal/adapters/http/perf"
	accountStore "clubes/internal/adapters/storage/account"
	avisoStore "clubes/internal/adapters/storage/aviso"
	claseStore "clubes/internal/adapters/storage/clase"
	clubStore "clubes/internal/adapters/storage/club"
	conquistadorStore "clubes/internal/adapters/storage/conquistador"
	progresoStore "clubes/internal/adapters/storage/progreso"
	requisitoStore "clubes/internal/adapters/storage/requisito"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore      accountStore.Store
	ClubStore         clubStore.Store
	ClaseStore        claseStore.Store
	RequisitoStore    requisitoStore.Store
	ConquistadorStore conquistadorStore.Store
	ProgresoStore     progresoStore.Store
	AvisoStore        avisoStore.Store
}

// Config carries the non-storage dependencies of the HTTP surface.
type Config struct {
	Tokens         *middleware.Tokens
	Collector      *perf.Collector
	Sender         email.Sender // nil disables completion notices
	CSRFKey        []byte
	SecureCookies  bool
	TrustedOrigins []string
	RateLimit      int // requests per second per IP; 0 uses RateLimitPerSecond
}

// ErrMissingTokens is returned by NewMux when no token service is configured.
var ErrMissingTokens = errors.New("web: token service is required")

// RateLimitPerSecond is the default per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 20

// LoadCSRFKey decodes a hex CSRF secret (32 bytes). An empty value yields a random key
// unless production is set, in which case startup fails.
func LoadCSRFKey(keyHex string, production bool) []byte {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("CLUBES_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if production {
		log.Fatal("CLUBES_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key. Set CLUBES_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global token service (set by NewMux)
var tokens *middleware.Tokens

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender (set by NewMux)
var emailSender email.Sender

// Server is the handler returned by NewMux plus the housekeeping it needs.
type Server struct {
	http.Handler
	limiter  *middleware.RateLimiter
	denylist *middleware.Denylist
}

// RunJanitor prunes idle rate-limit visitors and expired revocations until ctx is done.
func (s *Server) RunJanitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			visitors := s.limiter.Prune(5 * time.Minute)
			revoked := s.denylist.Prune(now)
			if visitors > 0 || revoked > 0 {
				slog.Debug("janitor", "visitors_pruned", visitors, "revocations_pruned", revoked)
			}
		}
	}
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, cfg Config) (*Server, error) {
	if cfg.Tokens == nil {
		return nil, ErrMissingTokens
	}
	stores = s
	tokens = cfg.Tokens
	perfCollector = cfg.Collector
	emailSender = cfg.Sender

	mux := http.NewServeMux()
	registerRoutes(mux)

	csrfKey := cfg.CSRFKey
	if len(csrfKey) == 0 {
		csrfKey = LoadCSRFKey("", false)
	}
	rate := cfg.RateLimit
	if rate <= 0 {
		rate = RateLimitPerSecond
	}
	limiter := middleware.NewRateLimiter(rate, time.Second)

	// SecurityHeaders -> RateLimit -> CSRF -> Auth -> Timing -> Mux
	// Timing sits next to the mux so it sees the matched route pattern.
	h := middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		middleware.CSRF(csrfKey, cfg.TrustedOrigins, cfg.SecureCookies),
		middleware.Auth(cfg.Tokens),
		middleware.Timing(cfg.Collector),
	)
	return &Server{Handler: h, limiter: limiter, denylist: cfg.Tokens.Denylist()}, nil
}
