package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	emailAdapter "clubes/internal/adapters/email"
	"clubes/internal/application/markdown"
	"clubes/internal/domain/clase"
	"clubes/internal/domain/club"
	"clubes/internal/domain/conquistador"
	"clubes/internal/domain/progreso"
	"clubes/internal/domain/requisito"
)

// NoticeKindClaseCompleta tags completion notices at the email provider.
const NoticeKindClaseCompleta = "clase_completa"

// ErrRequisitoOutsideClase is returned when the requisito belongs to another class than the member's.
var ErrRequisitoOutsideClase = errors.New("el requisito no pertenece a la clase del conquistador")

// ProgresoStoreForToggle defines the store interface needed by ToggleProgress.
type ProgresoStoreForToggle interface {
	ListByConquistador(ctx context.Context, conquistadorID int64) ([]progreso.Record, error)
	Upsert(ctx context.Context, r progreso.Record) error
}

// RequisitoStoreForToggle defines the requisito lookups needed by ToggleProgress.
type RequisitoStoreForToggle interface {
	GetByID(ctx context.Context, id int64) (requisito.Requirement, error)
	ListByClase(ctx context.Context, claseID int64) ([]requisito.Requirement, error)
}

// ClaseLookupForToggle resolves the class a member is enrolled in.
type ClaseLookupForToggle interface {
	GetByNombre(ctx context.Context, nombre string, clubID int64) (clase.Clase, error)
}

// MemberLookupForToggle resolves the member a progress entry belongs to.
type MemberLookupForToggle interface {
	GetByID(ctx context.Context, id int64) (conquistador.Conquistador, error)
}

// ClubLookupForNotice resolves the club receiving completion notices.
type ClubLookupForNotice interface {
	GetByID(ctx context.Context, id int64) (club.Club, error)
}

// NoticeClaimer records completion notices so each one is sent once.
type NoticeClaimer interface {
	Claim(ctx context.Context, conquistadorID, claseID int64) (bool, error)
	Release(ctx context.Context, conquistadorID, claseID int64) error
}

// ToggleProgressInput carries input for ToggleProgress.
type ToggleProgressInput struct {
	Actor          Actor
	ConquistadorID int64
	RequisitoID    int64
	Cumplido       bool
}

// ToggleProgressResult reports the stored record and whether a completion notice went out.
type ToggleProgressResult struct {
	Record     progreso.Record
	NoticeSent bool
}

// ToggleProgressDeps holds dependencies for ToggleProgress.
// Sender, ClubStore and Avisos may be nil, in which case no notice is attempted.
type ToggleProgressDeps struct {
	ProgresoStore     ProgresoStoreForToggle
	RequisitoStore    RequisitoStoreForToggle
	ConquistadorStore MemberLookupForToggle
	ClaseStore        ClaseLookupForToggle
	ClubStore         ClubLookupForNotice
	Avisos            NoticeClaimer
	Sender            emailAdapter.Sender
	Now               func() time.Time
}

// ExecuteToggleProgress stores the completion state of one requisito for one member.
// PRE: member and requisito exist; Actor may manage the member's club; requisito is in the member's clase
// POST: exactly one progreso row exists for the pair with the requested state
// INVARIANT: a failed notice never fails the toggle
func ExecuteToggleProgress(ctx context.Context, input ToggleProgressInput, deps ToggleProgressDeps) (ToggleProgressResult, error) {
	rec := progreso.Record{
		ConquistadorID: input.ConquistadorID,
		RequisitoID:    input.RequisitoID,
		Cumplido:       input.Cumplido,
	}
	if err := rec.Validate(); err != nil {
		return ToggleProgressResult{}, err
	}

	member, err := deps.ConquistadorStore.GetByID(ctx, rec.ConquistadorID)
	if err != nil {
		return ToggleProgressResult{}, err
	}
	if !input.Actor.CanManage(member.ClubID) {
		slog.Warn("progress_event", "event", "toggle_denied", "account_id", input.Actor.AccountID, "conquistador_id", member.ID)
		return ToggleProgressResult{}, ErrForbidden
	}
	req, err := deps.RequisitoStore.GetByID(ctx, rec.RequisitoID)
	if err != nil {
		return ToggleProgressResult{}, err
	}
	memberClase, err := deps.ClaseStore.GetByNombre(ctx, member.Clase, member.ClubID)
	if err != nil {
		return ToggleProgressResult{}, fmt.Errorf("clase %q: %w", member.Clase, err)
	}
	if req.ClaseID != memberClase.ID {
		slog.Warn("progress_event", "event", "toggle_foreign_requisito", "conquistador_id", member.ID, "requisito_id", req.ID, "clase_id", memberClase.ID)
		return ToggleProgressResult{}, ErrRequisitoOutsideClase
	}

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	rec.UpdatedAt = now()
	if err := deps.ProgresoStore.Upsert(ctx, rec); err != nil {
		return ToggleProgressResult{}, err
	}
	slog.Info("progress_event", "event", "toggled", "conquistador_id", rec.ConquistadorID, "requisito_id", rec.RequisitoID, "cumplido", rec.Cumplido, "account_id", input.Actor.AccountID)

	result := ToggleProgressResult{Record: rec}
	if !rec.Cumplido || req.Tipo != requisito.TipoRegular {
		return result, nil
	}
	result.NoticeSent = notifyClaseCompleta(ctx, member, req.ClaseID, deps)
	return result, nil
}

// notifyClaseCompleta emails the club once when the member has fulfilled every regular requisito.
func notifyClaseCompleta(ctx context.Context, member conquistador.Conquistador, claseID int64, deps ToggleProgressDeps) bool {
	if deps.Sender == nil || deps.ClubStore == nil || deps.Avisos == nil {
		return false
	}

	catalog, err := deps.RequisitoStore.ListByClase(ctx, claseID)
	if err != nil {
		slog.Error("progress_event", "event", "notice_catalog_failed", "clase_id", claseID, "error", err)
		return false
	}
	records, err := deps.ProgresoStore.ListByConquistador(ctx, member.ID)
	if err != nil {
		slog.Error("progress_event", "event", "notice_progress_failed", "conquistador_id", member.ID, "error", err)
		return false
	}
	if !progreso.RegularComplete(records, catalog) {
		return false
	}

	c, err := deps.ClubStore.GetByID(ctx, member.ClubID)
	if err != nil {
		slog.Error("progress_event", "event", "notice_club_failed", "club_id", member.ClubID, "error", err)
		return false
	}
	if c.Email == "" {
		return false
	}

	first, err := deps.Avisos.Claim(ctx, member.ID, claseID)
	if err != nil {
		slog.Error("progress_event", "event", "notice_claim_failed", "conquistador_id", member.ID, "error", err)
		return false
	}
	if !first {
		return false
	}

	msg := emailAdapter.Message{
		To:      []string{c.Email},
		Subject: fmt.Sprintf("%s completó los requisitos regulares de %s", member.Nombre, member.Clase),
		HTML:    markdown.Render(completionBody(member, c)),
		Kind:    NoticeKindClaseCompleta,
	}
	if _, err := deps.Sender.Send(ctx, msg); err != nil {
		slog.Error("progress_event", "event", "notice_send_failed", "conquistador_id", member.ID, "club_id", c.ID, "error", err)
		if relErr := deps.Avisos.Release(ctx, member.ID, claseID); relErr != nil {
			slog.Error("progress_event", "event", "notice_release_failed", "conquistador_id", member.ID, "error", relErr)
		}
		return false
	}
	slog.Info("progress_event", "event", "notice_sent", "conquistador_id", member.ID, "clase_id", claseID, "club_id", c.ID)
	return true
}

func completionBody(member conquistador.Conquistador, c club.Club) string {
	return fmt.Sprintf("## ¡Clase completa!\n\n**%s** del club %s cumplió todos los requisitos regulares de la clase **%s**.\n\nYa puede avanzar con los requisitos de la clase avanzada.",
		html.EscapeString(member.Nombre), html.EscapeString(c.Nombre), html.EscapeString(member.Clase))
}
