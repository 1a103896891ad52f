package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	"clubes/internal/adapters/email"
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

const testPassword = "TestPass123!"

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	API     playwright.APIRequestContext
	Stores  *web.Stores
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	stores := &web.Stores{
		AccountStore:      accountStore.NewSQLiteStore(db),
		ClubStore:         clubStore.NewSQLiteStore(db),
		ClaseStore:        claseStore.NewSQLiteStore(db),
		RequisitoStore:    requisitoStore.NewSQLiteStore(db),
		ConquistadorStore: conquistadorStore.NewSQLiteStore(db),
		ProgresoStore:     progresoStore.NewSQLiteStore(db),
		AvisoStore:        avisoStore.NewSQLiteStore(db),
	}

	ctx := context.Background()
	if err := orchestrators.ExecuteSeedCatalog(ctx, orchestrators.SeedCatalogDeps{
		ClubStore:      stores.ClubStore,
		ClaseStore:     stores.ClaseStore,
		RequisitoStore: stores.RequisitoStore,
	}); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	if err := orchestrators.ExecuteSeedAccounts(ctx, orchestrators.SeedAccountsInput{Password: testPassword},
		orchestrators.SeedAccountsDeps{AccountStore: stores.AccountStore, ClubStore: stores.ClubStore}); err != nil {
		t.Fatalf("failed to seed accounts: %v", err)
	}

	tokens, err := middleware.NewTokens([]byte("0123456789abcdef0123456789abcdef"), time.Hour, middleware.NewDenylist())
	if err != nil {
		t.Fatalf("failed to build tokens: %v", err)
	}
	web.RateLimitPerSecond = 1000
	handler, err := web.NewMux(stores, web.Config{
		Tokens:    tokens,
		Collector: perf.NewCollector(perf.DefaultCapacity),
		Sender:    email.NewNoopSender(),
		CSRFKey:   web.LoadCSRFKey("", false),
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: handler,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}
	api, err := pw.Request.NewContext(playwright.APIRequestNewContextOptions{
		BaseURL: playwright.String(baseURL),
	})
	if err != nil {
		t.Fatalf("failed to create API context: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		API:     api,
		Stores:  stores,
	}

	t.Cleanup(func() {
		api.Dispose()
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID     int64  `json:"id"`
		Rol    string `json:"rol"`
		ClubID int64  `json:"club_id"`
		Nombre string `json:"nombre"`
	} `json:"user"`
}

// login posts credentials and returns the decoded response.
func (a *testApp) login(t *testing.T, usuario string) loginResponse {
	t.Helper()
	resp, err := a.API.Post("/api/auth/login", playwright.APIRequestContextPostOptions{
		Data: map[string]string{"user": usuario, "password": testPassword},
	})
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	if resp.Status() != http.StatusOK {
		body, _ := resp.Text()
		t.Fatalf("login status = %d, body = %s", resp.Status(), body)
	}
	var out loginResponse
	if err := resp.JSON(&out); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return out
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
