package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte(strings.Repeat("s", MinSecretLength))

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()
	tokens, err := NewTokens(testSecret, time.Hour, nil)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	return tokens
}

// TestTokens_IssueParse tests the round trip of a signed identity.
func TestTokens_IssueParse(t *testing.T) {
	tokens := newTestTokens(t)
	raw, issued, err := tokens.Issue(Identity{AccountID: 3, Usuario: "dir1", Rol: "director", ClubID: 1, Nombre: "Dirección"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.TokenID == "" || issued.ExpiresAt.IsZero() {
		t.Fatalf("issued identity missing jti or expiry: %+v", issued)
	}

	got, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.AccountID != 3 || got.Rol != "director" || got.ClubID != 1 || got.Usuario != "dir1" || got.TokenID != issued.TokenID {
		t.Errorf("parsed identity = %+v", got)
	}
}

// TestTokens_Rejections tests tokens that must not authenticate.
func TestTokens_Rejections(t *testing.T) {
	tokens := newTestTokens(t)
	raw, issued, _ := tokens.Issue(Identity{AccountID: 1, Rol: "director", ClubID: 1})

	other, _ := NewTokens([]byte(strings.Repeat("x", MinSecretLength)), time.Hour, nil)
	foreign, _, _ := other.Issue(Identity{AccountID: 1, Rol: "distrital"})

	expired := newTestTokens(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, _ := expired.Issue(Identity{AccountID: 1, Rol: "director", ClubID: 1})

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "jti": "x", "exp": time.Now().Add(time.Hour).Unix()})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not-a-token", ErrInvalidToken},
		{"other secret", foreign, ErrInvalidToken},
		{"expired", stale, ErrInvalidToken},
		{"alg none", unsigned, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tokens.Parse(tt.raw); !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}

	tokens.Revoke(issued)
	if _, err := tokens.Parse(raw); !errors.Is(err, ErrRevokedToken) {
		t.Errorf("revoked token error = %v, want ErrRevokedToken", err)
	}
}

// TestNewTokens_WeakSecret tests the secret length floor.
func TestNewTokens_WeakSecret(t *testing.T) {
	if _, err := NewTokens([]byte("short"), time.Hour, nil); !errors.Is(err, ErrWeakSecret) {
		t.Errorf("error = %v, want ErrWeakSecret", err)
	}
}

// TestDenylist_Prune tests that expired revocations are forgotten.
func TestDenylist_Prune(t *testing.T) {
	d := NewDenylist()
	now := time.Now()
	d.Revoke("old", now.Add(-time.Minute))
	d.Revoke("live", now.Add(time.Minute))
	if n := d.Prune(now); n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}
	if d.IsRevoked("old") || !d.IsRevoked("live") {
		t.Error("only the expired entry should be pruned")
	}
}

// TestAuthMiddleware tests identity propagation and the 401/403 guards.
func TestAuthMiddleware(t *testing.T) {
	tokens := newTestTokens(t)
	director, _, _ := tokens.Issue(Identity{AccountID: 1, Rol: "director", ClubID: 1})
	distrital, _, _ := tokens.Issue(Identity{AccountID: 2, Rol: "distrital"})

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	authed := Chain(ok, Auth(tokens), RequireAuth)
	distritalOnly := Chain(ok, Auth(tokens), RequireRole("distrital"))

	tests := []struct {
		name    string
		handler http.Handler
		header  string
		want    int
	}{
		{"no token", authed, "", http.StatusUnauthorized},
		{"bad scheme", authed, "Basic " + director, http.StatusUnauthorized},
		{"valid token", authed, "Bearer " + director, http.StatusNoContent},
		{"lowercase scheme", authed, "bearer " + director, http.StatusNoContent},
		{"wrong role", distritalOnly, "Bearer " + director, http.StatusForbidden},
		{"right role", distritalOnly, "Bearer " + distrital, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/clubs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			tt.handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
			if rr.Code >= 400 && !strings.Contains(rr.Body.String(), `"error"`) {
				t.Errorf("error body = %q, want JSON error", rr.Body.String())
			}
		})
	}
}
