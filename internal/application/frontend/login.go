package frontend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"clubes/internal/domain/session"
)

// LoginInput carries the credentials typed by the user.
type LoginInput struct {
	User     string
	Password string
}

// LoginDeps holds the login flow's collaborators.
type LoginDeps struct {
	API   LoginAPI
	Store SessionStore
}

// LoginResult reports where the user lands after logging in.
type LoginResult struct {
	Session  session.Session
	Redirect string
}

// ExecuteLogin validates the form, authenticates and persists a fresh session.
// PRE: deps are non-nil
// POST: on success the store holds token, rol, club_id, user_id and user_name; nothing else survives
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	user := strings.TrimSpace(input.User)
	if user == "" {
		return LoginResult{}, ErrEmptyUser
	}
	if input.Password == "" {
		return LoginResult{}, ErrEmptyPassword
	}

	res, err := deps.API.Login(ctx, user, input.Password)
	if err != nil {
		slog.Warn("auth_event", "event", "login_failed", "usuario", user, "error", err)
		return LoginResult{}, err
	}

	sess := session.Session{
		Token:    res.Token,
		Rol:      res.Rol,
		ClubID:   res.ClubID,
		UserID:   res.UserID,
		UserName: res.Nombre,
	}
	if err := deps.Store.Save(sess); err != nil {
		return LoginResult{}, fmt.Errorf("save session: %w", err)
	}

	slog.Info("auth_event", "event", "login", "usuario", user, "rol", res.Rol, "access", sess.Access().String())
	return LoginResult{Session: sess, Redirect: session.DashboardFor(res.Rol)}, nil
}
