package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"cronicas-api/internal/model"
	"cronicas-api/internal/repository"
)

type SessionService struct {
	sessionRepo *repository.SessionRepository
	audit       auditor
	now         func() time.Time
}

// SessionFields is both the create payload and the partial update payload. Only fields
// with Set are applied.
type SessionFields struct {
	Cronica        Optional[string] `json:"cronica"`
	Juego          Optional[string] `json:"juego"`
	NumeroDeSesion Optional[int]    `json:"numero_de_sesion"`
	Fecha          Optional[string] `json:"fecha"`
	Resumen        Optional[string] `json:"resumen"`
}

func NewSessionService(sessionRepo *repository.SessionRepository, publisher EventPublisher, log *slog.Logger) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		audit:       newAuditor(publisher, log),
		now:         time.Now,
	}
}

// ListSessions returns the caller's sessions, newest date first.
func (s *SessionService) ListSessions(ctx context.Context, userID uint) ([]model.Session, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.sessionRepo.ListByUserID(ctx, userID)
}

func (s *SessionService) CreateSession(ctx context.Context, userID uint, fields SessionFields) (*model.Session, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	session := &model.Session{UserID: userID, Fecha: model.Today(s.now())}
	if fields.Fecha.Value != nil && strings.TrimSpace(*fields.Fecha.Value) != "" {
		fecha, err := parseDate(*fields.Fecha.Value)
		if err != nil {
			return nil, err
		}
		session.Fecha = fecha
	}
	fields.Cronica.apply(&session.Cronica)
	fields.Juego.apply(&session.Juego)
	fields.NumeroDeSesion.apply(&session.NumeroDeSesion)
	fields.Resumen.apply(&session.Resumen)

	err := s.sessionRepo.Transaction(ctx, func(repo *repository.SessionRepository) error {
		return repo.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, model.AuditSessionCreated, userID, session.ID, "")
	return session, nil
}

// GetSession hides whether a row exists for another user: both cases are ErrSessionNotFound.
func (s *SessionService) GetSession(ctx context.Context, userID, sessionID uint) (*model.Session, error) {
	if userID == 0 || sessionID == 0 {
		return nil, ErrInvalidInput
	}
	session, err := s.sessionRepo.GetByIDAndUserID(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionService) UpdateSession(ctx context.Context, userID, sessionID uint, fields SessionFields) (*model.Session, error) {
	if userID == 0 || sessionID == 0 {
		return nil, ErrInvalidInput
	}

	var updated *model.Session
	err := s.sessionRepo.Transaction(ctx, func(repo *repository.SessionRepository) error {
		session, err := repo.GetByIDAndUserID(ctx, sessionID, userID)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrSessionNotFound
		}

		if fields.Fecha.Set {
			if fields.Fecha.Value == nil {
				return invalid("fecha", "must be a date in YYYY-MM-DD format")
			}
			fecha, err := parseDate(*fields.Fecha.Value)
			if err != nil {
				return err
			}
			session.Fecha = fecha
		}
		fields.Cronica.apply(&session.Cronica)
		fields.Juego.apply(&session.Juego)
		fields.NumeroDeSesion.apply(&session.NumeroDeSesion)
		fields.Resumen.apply(&session.Resumen)

		if err := repo.Save(ctx, session); err != nil {
			return err
		}
		updated = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, model.AuditSessionUpdated, userID, sessionID, "")
	return updated, nil
}

func (s *SessionService) DeleteSession(ctx context.Context, userID, sessionID uint) error {
	if userID == 0 || sessionID == 0 {
		return ErrInvalidInput
	}

	err := s.sessionRepo.Transaction(ctx, func(repo *repository.SessionRepository) error {
		deleted, err := repo.DeleteByIDAndUserID(ctx, sessionID, userID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrSessionNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.record(ctx, model.AuditSessionDeleted, userID, sessionID, "")
	return nil
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, invalid("fecha", "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}
