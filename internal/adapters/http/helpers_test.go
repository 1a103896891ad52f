package web

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
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
	"clubes/internal/adapters/storage/storagetest"
	"clubes/internal/domain/session"
)

// testServer is a fully wired API over an in-memory database.
// Club 1 (Orión) has member 42 in the shared class Amigo (id 1) with requisitos 7 and 8.
// Club 2 (Águilas) has member 50.
type testServer struct {
	t         *testing.T
	db        *sql.DB
	handler   http.Handler
	tokens    *middleware.Tokens
	collector *perf.Collector
	sender    *email.NoopSender
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := storagetest.Open(t)
	storagetest.Exec(t, db, "INSERT INTO club (id, nombre, email) VALUES (1, 'Orión', 'orion@clubes.example')")
	storagetest.Exec(t, db, "INSERT INTO club (id, nombre) VALUES (2, 'Águilas del Norte')")
	storagetest.Exec(t, db, "INSERT INTO clase (id, nombre, orden) VALUES (1, 'Amigo', 1)")
	storagetest.Exec(t, db, "INSERT INTO requisito (id, clase_id, titulo, tipo, categoria, orden, descripcion) VALUES (7, 1, 'Voto y Ley', 'regular', 'Generales', 1, 'Memorizar el *Voto*')")
	storagetest.Exec(t, db, "INSERT INTO requisito (id, clase_id, titulo, tipo, categoria, orden) VALUES (8, 1, 'Nudos', 'regular', 'Arte de acampar', 1)")
	storagetest.Exec(t, db, "INSERT INTO requisito (id, clase_id, titulo, tipo, categoria, orden) VALUES (9, 1, 'Historia', 'avanzada', 'Generales', 1)")
	storagetest.Exec(t, db, "INSERT INTO conquistador (id, nombre, clase, club_id) VALUES (42, 'Ana', 'Amigo', 1)")
	storagetest.Exec(t, db, "INSERT INTO conquistador (id, nombre, clase, club_id) VALUES (50, 'Beto', 'Amigo', 2)")

	tokens, err := middleware.NewTokens([]byte(strings.Repeat("t", middleware.MinSecretLength)), time.Hour, nil)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	collector := perf.NewCollector(256)
	sender := email.NewNoopSender()

	srv, err := NewMux(&Stores{
		AccountStore:      accountStore.NewSQLiteStore(db),
		ClubStore:         clubStore.NewSQLiteStore(db),
		ClaseStore:        claseStore.NewSQLiteStore(db),
		RequisitoStore:    requisitoStore.NewSQLiteStore(db),
		ConquistadorStore: conquistadorStore.NewSQLiteStore(db),
		ProgresoStore:     progresoStore.NewSQLiteStore(db),
		AvisoStore:        avisoStore.NewSQLiteStore(db),
	}, Config{
		Tokens:    tokens,
		Collector: collector,
		Sender:    sender,
		CSRFKey:   []byte(strings.Repeat("c", 32)),
		RateLimit: 10000,
	})
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}
	return &testServer{t: t, db: db, handler: srv, tokens: tokens, collector: collector, sender: sender}
}

func (s *testServer) token(rol string, clubID int64) string {
	s.t.Helper()
	raw, _, err := s.tokens.Issue(middleware.Identity{AccountID: 100 + clubID, Usuario: rol, Rol: rol, ClubID: clubID})
	if err != nil {
		s.t.Fatalf("Issue: %v", err)
	}
	return raw
}

func (s *testServer) director() string  { return s.token(session.RoleDirector, 1) }
func (s *testServer) distrital() string { return s.token(session.RoleDistrital, 0) }

// do sends a request with an optional JSON body and bearer token.
func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				s.t.Fatalf("encode body: %v", err)
			}
		}
	}
	req := httptest.NewRequest(method, path, &buf).WithContext(context.Background())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, want, rr.Body.String())
	}
}
