package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "clubes/internal/adapters/email"
	web "clubes/internal/adapters/http"
	"clubes/internal/adapters/http/middleware"
	"clubes/internal/adapters/http/perf"
	"clubes/internal/adapters/storage"
	accountStore "clubes/internal/adapters/storage/account"
	avisoStore "clubes/internal/adapters/storage/aviso"
	claseStore "clubes/internal/adapters/storage/clase"
	clubStore "clubes/internal/adapters/storage/club"
	conquistadorStore "clubes/internal/adapters/storage/conquistador"
	progresoStore "clubes/internal/adapters/storage/progreso"
	requisitoStore "clubes/internal/adapters/storage/requisito"
	"clubes/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	env := envOrDefault("CLUBES_ENV", "development")
	production := env == "production"

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("CLUBES_DB", "clubes.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultCapacity)
	timedDB := storage.NewTimedDB(db, collector)

	stores := &web.Stores{
		AccountStore:      accountStore.NewSQLiteStore(timedDB),
		ClubStore:         clubStore.NewSQLiteStore(timedDB),
		ClaseStore:        claseStore.NewSQLiteStore(timedDB),
		RequisitoStore:    requisitoStore.NewSQLiteStore(timedDB),
		ConquistadorStore: conquistadorStore.NewSQLiteStore(timedDB),
		ProgresoStore:     progresoStore.NewSQLiteStore(timedDB),
		AvisoStore:        avisoStore.NewSQLiteStore(timedDB),
	}

	ctx := context.Background()

	// Seed clubs, shared classes and their requisitos (idempotent)
	catalogDeps := orchestrators.SeedCatalogDeps{
		ClubStore:      stores.ClubStore,
		ClaseStore:     stores.ClaseStore,
		RequisitoStore: stores.RequisitoStore,
	}
	if err := orchestrators.ExecuteSeedCatalog(ctx, catalogDeps); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}

	// Seed accounts: explicit password in production, a development default otherwise
	seedPassword := os.Getenv("CLUBES_SEED_PASSWORD")
	if seedPassword == "" && !production {
		seedPassword = "conquistadores1"
	}
	if seedPassword != "" {
		accountDeps := orchestrators.SeedAccountsDeps{AccountStore: stores.AccountStore, ClubStore: stores.ClubStore}
		if err := orchestrators.ExecuteSeedAccounts(ctx, orchestrators.SeedAccountsInput{Password: seedPassword}, accountDeps); err != nil {
			log.Fatalf("failed to seed accounts: %v", err)
		}
	} else {
		log.Println("Account seeding skipped (CLUBES_SEED_PASSWORD not set)")
	}

	// Configure email sender for completion notices
	var sender emailPkg.Sender
	resendKey := os.Getenv("CLUBES_RESEND_KEY")
	emailFrom := envOrDefault("CLUBES_RESEND_FROM", "Clubes <noreply@clubes.local>")
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if production {
			log.Println("WARNING: CLUBES_RESEND_KEY is not set, completion notices are only logged")
		} else {
			log.Println("Email sender configured (noop, set CLUBES_RESEND_KEY for real delivery)")
		}
	}

	ttl, err := time.ParseDuration(envOrDefault("CLUBES_JWT_TTL", "24h"))
	if err != nil {
		log.Fatalf("invalid CLUBES_JWT_TTL: %v", err)
	}
	tokens, err := middleware.NewTokens(loadJWTSecret(production), ttl, middleware.NewDenylist())
	if err != nil {
		log.Fatalf("failed to configure tokens: %v", err)
	}

	rateLimit, _ := strconv.Atoi(os.Getenv("CLUBES_RATE_LIMIT"))
	srv, err := web.NewMux(stores, web.Config{
		Tokens:         tokens,
		Collector:      collector,
		Sender:         sender,
		CSRFKey:        web.LoadCSRFKey(os.Getenv("CLUBES_CSRF_KEY"), production),
		SecureCookies:  production,
		TrustedOrigins: splitList(os.Getenv("CLUBES_TRUSTED_ORIGINS")),
		RateLimit:      rateLimit,
	})
	if err != nil {
		log.Fatalf("failed to build handler: %v", err)
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go srv.RunJanitor(runCtx, time.Minute)

	addr := envOrDefault("CLUBES_ADDR", ":3000")
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		log.Printf("Clubes %s starting on %s (env=%s, schema=%d)", version, addr, env, storage.LatestSchemaVersion())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-runCtx.Done()
	slog.Info("shutdown", "reason", "signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// loadJWTSecret reads CLUBES_JWT_SECRET. Production refuses to start without it;
// development falls back to a random per-process secret.
func loadJWTSecret(production bool) []byte {
	if s := os.Getenv("CLUBES_JWT_SECRET"); s != "" {
		return []byte(s)
	}
	if production {
		log.Fatal("CLUBES_JWT_SECRET is required in production")
	}
	secret := make([]byte, middleware.MinSecretLength)
	if _, err := rand.Read(secret); err != nil {
		log.Fatalf("failed to generate JWT secret: %v", err)
	}
	log.Println("WARNING: using random JWT secret, tokens will not survive a restart. Set CLUBES_JWT_SECRET.")
	return secret
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
