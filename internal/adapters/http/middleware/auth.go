package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"clubes/internal/domain/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const identityContextKey contextKey = "identity"

// MinSecretLength is the shortest accepted HMAC secret.
const MinSecretLength = 32

// Token errors
var (
	ErrMissingToken = errors.New("falta el token de autenticación")
	ErrInvalidToken = errors.New("token inválido o expirado")
	ErrRevokedToken = errors.New("la sesión fue cerrada")
	ErrWeakSecret   = errors.New("el secreto JWT debe tener al menos 32 caracteres")
)

// Identity is the authenticated caller carried by a bearer token.
type Identity struct {
	AccountID int64
	Usuario   string
	Rol       string
	ClubID    int64
	Nombre    string
	TokenID   string
	ExpiresAt time.Time
}

// IsDistrital reports whether the caller has the district role.
func (id Identity) IsDistrital() bool {
	return strings.EqualFold(id.Rol, session.RoleDistrital)
}

// claims is the JWT payload.
type claims struct {
	Usuario string `json:"usr"`
	Rol     string `json:"rol"`
	ClubID  int64  `json:"club_id,omitempty"`
	Nombre  string `json:"nombre,omitempty"`
	jwt.RegisteredClaims
}

// Denylist remembers revoked token ids until the token would have expired anyway.
type Denylist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewDenylist creates an empty denylist.
func NewDenylist() *Denylist {
	return &Denylist{revoked: make(map[string]time.Time)}
}

// Revoke adds a token id until expiresAt.
// PRE: tokenID is non-empty
// POST: IsRevoked(tokenID) is true until expiresAt
func (d *Denylist) Revoke(tokenID string, expiresAt time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[tokenID] = expiresAt
}

// IsRevoked reports whether the token id was revoked.
func (d *Denylist) IsRevoked(tokenID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.revoked[tokenID]
	return ok
}

// Prune drops entries whose tokens have expired and returns how many were removed.
func (d *Denylist) Prune(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	removed := 0
	for id, exp := range d.revoked {
		if now.After(exp) {
			delete(d.revoked, id)
			removed++
		}
	}
	return removed
}

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	secret   []byte
	ttl      time.Duration
	denylist *Denylist
	now      func() time.Time
}

// NewTokens creates a token service.
// PRE: len(secret) >= MinSecretLength; ttl > 0
func NewTokens(secret []byte, ttl time.Duration, denylist *Denylist) (*Tokens, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if denylist == nil {
		denylist = NewDenylist()
	}
	return &Tokens{secret: secret, ttl: ttl, denylist: denylist, now: time.Now}, nil
}

// Issue signs a token for the identity. TokenID and ExpiresAt are filled in.
// POST: returned Identity describes the signed token
func (t *Tokens) Issue(id Identity) (string, Identity, error) {
	now := t.now()
	id.TokenID = uuid.NewString()
	id.ExpiresAt = now.Add(t.ttl)

	c := claims{
		Usuario: id.Usuario,
		Rol:     id.Rol,
		ClubID:  id.ClubID,
		Nombre:  id.Nombre,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.AccountID, 10),
			ID:        id.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(id.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", Identity{}, err
	}
	return signed, id, nil
}

// Parse verifies a token and returns its identity.
// INVARIANT: only HS256 tokens signed with this secret and not revoked are accepted
func (t *Tokens) Parse(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrMissingToken
	}
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	accountID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || c.ID == "" {
		return Identity{}, ErrInvalidToken
	}
	if t.denylist.IsRevoked(c.ID) {
		return Identity{}, ErrRevokedToken
	}
	return Identity{
		AccountID: accountID,
		Usuario:   c.Usuario,
		Rol:       c.Rol,
		ClubID:    c.ClubID,
		Nombre:    c.Nombre,
		TokenID:   c.ID,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// Revoke invalidates the identity's token for the rest of its lifetime.
func (t *Tokens) Revoke(id Identity) {
	if id.TokenID == "" {
		return
	}
	t.denylist.Revoke(id.TokenID, id.ExpiresAt)
}

// Denylist returns the revocation list used by this service.
func (t *Tokens) Denylist() *Denylist {
	return t.denylist
}

// Auth returns middleware that reads the bearer token and sets the identity in context.
// It does NOT block unauthenticated requests; use RequireAuth or RequireRole for that.
func Auth(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := bearerToken(r); raw != "" {
				if id, err := tokens.Parse(raw); err == nil {
					r = r.WithContext(ContextWithIdentity(r.Context(), id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that answers 401 to requests without a valid token.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentityFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "no autenticado")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that blocks callers without one of the given roles.
// Role comparison is case-insensitive.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[strings.ToLower(r)] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := GetIdentityFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "no autenticado")
				return
			}
			if !roleSet[strings.ToLower(id.Rol)] {
				writeError(w, http.StatusForbidden, "no tienes permisos para esta acción")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetIdentityFromContext extracts the caller from the request context.
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}

// ContextWithIdentity returns a context carrying the given identity.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
