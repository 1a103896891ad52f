package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"clubes/internal/domain/clase"
	"clubes/internal/domain/club"
	"clubes/internal/domain/conquistador"
	"clubes/internal/domain/progreso"
	"clubes/internal/domain/requisito"
	"clubes/internal/domain/session"
)

// DefaultBaseURL is used when CLUBES_API_URL is unset.
const DefaultBaseURL = "http://localhost:3000/api"

// DefaultLoginTimeout bounds the credential request. No other call has a timeout.
const DefaultLoginTimeout = 30 * time.Second

// maxBody caps how much of a response body is read.
const maxBody = 4 << 20

// Client errors
var (
	ErrNotAuthenticated = session.ErrNotAuthenticated
	ErrTimeout          = errors.New("tiempo de espera agotado")
	ErrInvalidResponse  = errors.New("respuesta inválida del servidor")
)

// APIError is a non-2xx response. Message is the server's {error|message} text when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// FetchError reports a failed catalog load: non-2xx status, transport failure or malformed payload.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Error cargando %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// TokenFunc returns the bearer token of the current session, or "" when logged out.
type TokenFunc func() string

// Client talks to the REST backend on behalf of one session.
type Client struct {
	baseURL    string
	token      TokenFunc
	httpClient *http.Client

	// LoginTimeout bounds Login. Zero means DefaultLoginTimeout.
	LoginTimeout time.Duration
}

// New creates a Client. A nil httpClient gets a client without timeout.
// PRE: token is non-nil
func New(baseURL string, token TokenFunc, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		token:        token,
		httpClient:   httpClient,
		LoginTimeout: DefaultLoginTimeout,
	}
}

// BaseURLFromEnv returns CLUBES_API_URL or DefaultBaseURL.
func BaseURLFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("CLUBES_API_URL")); v != "" {
		return v
	}
	return DefaultBaseURL
}

// LoginResult is what a successful login hands back to the session store.
type LoginResult struct {
	Token  string
	UserID string
	Rol    string
	ClubID string
	Nombre string
}

type loginBody struct {
	Token   string `json:"token"`
	Error   string `json:"error"`
	Message string `json:"message"`
	User    struct {
		ID     textID `json:"id"`
		Rol    string `json:"rol"`
		ClubID textID `json:"club_id"`
		Nombre string `json:"nombre"`
	} `json:"user"`
}

// Login exchanges credentials for a token. The request is aborted after LoginTimeout.
// The body is parsed before the status is checked, so error bodies surface their message.
// POST: Nombre falls back to user when the server sends no name
func (c *Client) Login(ctx context.Context, user, password string) (LoginResult, error) {
	timeout := c.LoginTimeout
	if timeout <= 0 {
		timeout = DefaultLoginTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := json.Marshal(map[string]string{"user": user, "password": password})
	if err != nil {
		return LoginResult{}, fmt.Errorf("marshal login: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(data))
	if err != nil {
		return LoginResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if timedOut(ctx, err) {
			return LoginResult{}, ErrTimeout
		}
		return LoginResult{}, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		if timedOut(ctx, err) {
			return LoginResult{}, ErrTimeout
		}
		return LoginResult{}, fmt.Errorf("read login response: %w", err)
	}

	var body loginBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return LoginResult{}, ErrInvalidResponse
	}
	if !isSuccess(resp.StatusCode) {
		return LoginResult{}, &APIError{Status: resp.StatusCode, Message: errorMessage(body.Error, body.Message, resp)}
	}
	if body.Token == "" {
		return LoginResult{}, ErrInvalidResponse
	}

	nombre := body.User.Nombre
	if nombre == "" {
		nombre = user
	}
	return LoginResult{
		Token:  body.Token,
		UserID: string(body.User.ID),
		Rol:    body.User.Rol,
		ClubID: string(body.User.ClubID),
		Nombre: nombre,
	}, nil
}

// Logout revokes the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Requisitos fetches a class catalog and returns it sorted for display.
// Every failure except a missing session is a *FetchError.
func (c *Client) Requisitos(ctx context.Context, claseID string) ([]requisito.Requirement, error) {
	var reqs []requisito.Requirement
	err := c.do(ctx, http.MethodGet, "/requisitos/"+url.PathEscape(claseID), nil, &reqs)
	if errors.Is(err, ErrNotAuthenticated) {
		return nil, err
	}
	if err != nil {
		return nil, &FetchError{Resource: "requisitos", Err: err}
	}
	if reqs == nil {
		reqs = []requisito.Requirement{}
	}
	requisito.Sort(reqs)
	return reqs, nil
}

// Conquistadores fetches a class roster. It never fails: a missing club, a non-2xx status,
// a transport error or a payload that is not a list all yield an empty roster.
func (c *Client) Conquistadores(ctx context.Context, claseNombre, clubID string) []conquistador.Conquistador {
	if clubID == "" {
		return []conquistador.Conquistador{}
	}
	path := "/conquistadores/clase/" + url.PathEscape(claseNombre) + "?club_id=" + url.QueryEscape(clubID)
	var members []conquistador.Conquistador
	if err := c.do(ctx, http.MethodGet, path, nil, &members); err != nil {
		slog.Warn("roster_event", "event", "roster_degraded", "clase", claseNombre, "club_id", clubID, "error", err)
		return []conquistador.Conquistador{}
	}
	if members == nil {
		return []conquistador.Conquistador{}
	}
	return members
}

type progresoItem struct {
	RequisitoID textID `json:"requisito_id"`
	Cumplido    truthy `json:"cumplido"`
}

// Progreso fetches one member's ledger entries in response order.
func (c *Client) Progreso(ctx context.Context, conquistadorID string) ([]progreso.Entry, error) {
	var items []progresoItem
	if err := c.do(ctx, http.MethodGet, "/progreso/"+url.PathEscape(conquistadorID), nil, &items); err != nil {
		return nil, err
	}
	out := make([]progreso.Entry, 0, len(items))
	for _, it := range items {
		out = append(out, progreso.Entry{
			ConquistadorID: conquistadorID,
			RequisitoID:    string(it.RequisitoID),
			Cumplido:       bool(it.Cumplido),
		})
	}
	return out, nil
}

// SetProgresoResult is the upsert acknowledgement.
type SetProgresoResult struct {
	AvisoEnviado bool `json:"aviso_enviado"`
}

// SetProgreso upserts one (member, requisito) pair.
func (c *Client) SetProgreso(ctx context.Context, conquistadorID, requisitoID string, cumplido bool) (SetProgresoResult, error) {
	body := map[string]any{
		"conquistador_id": conquistadorID,
		"requisito_id":    requisitoID,
		"cumplido":        cumplido,
	}
	var res SetProgresoResult
	err := c.do(ctx, http.MethodPost, "/progreso", body, &res)
	return res, err
}

// CreateConquistador adds a member to a class roster and returns it with its new id.
func (c *Client) CreateConquistador(ctx context.Context, nombre, claseNombre, clubID string) (conquistador.Conquistador, error) {
	body := map[string]string{"nombre": nombre, "clase": claseNombre, "club_id": clubID}
	var m conquistador.Conquistador
	err := c.do(ctx, http.MethodPost, "/conquistadores", body, &m)
	return m, err
}

// RenameConquistador changes a member's name.
func (c *Client) RenameConquistador(ctx context.Context, id, nombre string) error {
	return c.do(ctx, http.MethodPut, "/conquistadores/"+url.PathEscape(id), map[string]string{"nombre": nombre}, nil)
}

// DeleteConquistador removes a member. The server cascades its progress.
func (c *Client) DeleteConquistador(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/conquistadores/"+url.PathEscape(id), nil, nil)
}

// Clubs lists every club. Only distrital sessions are allowed.
func (c *Client) Clubs(ctx context.Context) ([]club.Club, error) {
	var clubs []club.Club
	if err := c.do(ctx, http.MethodGet, "/clubs", nil, &clubs); err != nil {
		return nil, err
	}
	if clubs == nil {
		clubs = []club.Club{}
	}
	return clubs, nil
}

// Club fetches one club.
func (c *Client) Club(ctx context.Context, id string) (club.Club, error) {
	var cl club.Club
	err := c.do(ctx, http.MethodGet, "/clubs/"+url.PathEscape(id), nil, &cl)
	return cl, err
}

// Clases lists the classes visible to a club.
func (c *Client) Clases(ctx context.Context, clubID string) ([]clase.Clase, error) {
	var clases []clase.Clase
	if err := c.do(ctx, http.MethodGet, "/clases?club_id="+url.QueryEscape(clubID), nil, &clases); err != nil {
		return nil, err
	}
	if clases == nil {
		clases = []clase.Clase{}
	}
	return clases, nil
}

// CreateClase adds a club-specific class.
func (c *Client) CreateClase(ctx context.Context, nombre, clubID string) (clase.Clase, error) {
	var cl clase.Clase
	err := c.do(ctx, http.MethodPost, "/clases", map[string]string{"nombre": nombre, "club_id": clubID}, &cl)
	return cl, err
}

// do sends an authenticated request and decodes a 2xx body into out when out is non-nil.
// PRE: path starts with "/"
// POST: a missing token or a 401 yields ErrNotAuthenticated; other non-2xx yield *APIError
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token := c.token()
	if token == "" {
		return ErrNotAuthenticated
	}

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrNotAuthenticated
	}
	if !isSuccess(resp.StatusCode) {
		var e struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &e)
		return &APIError{Status: resp.StatusCode, Message: errorMessage(e.Error, e.Message, resp)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 && resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func errorMessage(errText, message string, resp *http.Response) string {
	if errText != "" {
		return errText
	}
	if message != "" {
		return message
	}
	return fmt.Sprintf("Error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

func timedOut(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}
