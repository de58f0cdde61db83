// Package intake exposes the complaint-intake conversation as a
// service: session lifecycle, turn processing, and persistence of the
// finalized record.
package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carebridge/complaint-intake/internal/complaint"
	"github.com/carebridge/complaint-intake/internal/dialogue"
	"github.com/carebridge/complaint-intake/internal/records"
	"github.com/carebridge/complaint-intake/internal/session"
	"github.com/carebridge/complaint-intake/pkg/logging"
)

var tracer = otel.Tracer("intake")

// ErrSessionNotFound is returned when a message references an unknown
// or expired session.
var ErrSessionNotFound = errors.New("intake: session not found")

// SessionStore persists dialogue state between turns.
type SessionStore interface {
	Save(ctx context.Context, st *dialogue.State) error
	Load(ctx context.Context, sessionID string) (*dialogue.State, error)
	Delete(ctx context.Context, sessionID string) error
}

// SubmissionStore records finalized complaints.
type SubmissionStore interface {
	Save(ctx context.Context, sub *records.Submission) error
}

// StartResponse opens a session.
type StartResponse struct {
	SessionID string `json:"sessionId"`
	Greeting  string `json:"greeting"`
}

// MessageRequest is one user turn.
type MessageRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// MessageResponse is the assistant's reply for one turn. Record is
// populated only once the conversation completes.
type MessageResponse struct {
	SessionID string            `json:"sessionId"`
	Reply     string            `json:"reply"`
	Completed bool              `json:"completed"`
	Record    *complaint.Record `json:"record,omitempty"`
}

const greeting = "Hello! I'm here to help you share feedback about your hospital experience. Please describe what happened in as much detail as you can, and I'll guide you through the rest."

// Service coordinates the dialogue engine with session and submission
// storage. Turns for the same session are serialized.
type Service struct {
	engine      *dialogue.Engine
	sessions    SessionStore
	submissions SubmissionStore
	logger      *logging.Logger
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates the intake service. engine and sessions are
// required; submissions may be nil when persistence is not configured,
// in which case finalized records live only in the session store until
// they expire.
func NewService(engine *dialogue.Engine, sessions SessionStore, submissions SubmissionStore, logger *logging.Logger) *Service {
	if engine == nil {
		panic("intake: dialogue engine required")
	}
	if sessions == nil {
		panic("intake: session store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		engine:      engine,
		sessions:    sessions,
		submissions: submissions,
		logger:      logger,
		now:         time.Now,
		locks:       map[string]*sync.Mutex{},
	}
}

// StartSession opens a fresh conversation and returns its greeting.
func (s *Service) StartSession(ctx context.Context) (*StartResponse, error) {
	ctx, span := tracer.Start(ctx, "intake.start_session")
	defer span.End()

	sessionID := uuid.NewString()
	span.SetAttributes(attribute.String("session.id", sessionID))

	st := dialogue.NewState(sessionID, s.now().UTC())
	st.AppendTurn(dialogue.RoleAssistant, greeting, s.now().UTC())

	if err := s.sessions.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("intake: failed to create session: %w", err)
	}

	s.logger.WithSession(sessionID).Info("session started")
	return &StartResponse{SessionID: sessionID, Greeting: greeting}, nil
}

// HandleMessage processes one user turn, persisting the updated state
// and, on completion, the finalized submission.
func (s *Service) HandleMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	ctx, span := tracer.Start(ctx, "intake.handle_message")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", req.SessionID))

	unlock := s.lockSession(req.SessionID)
	defer unlock()

	st, err := s.sessions.Load(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("intake: failed to load session: %w", err)
	}
	alreadyComplete := st.IsComplete

	result, err := s.engine.Advance(ctx, st, req.Message)
	if err != nil {
		return nil, fmt.Errorf("intake: failed to process turn: %w", err)
	}

	if err := s.sessions.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("intake: failed to persist session: %w", err)
	}

	resp := &MessageResponse{
		SessionID: req.SessionID,
		Reply:     result.Reply,
		Completed: result.Completed,
	}
	if result.Completed {
		resp.Record = &st.Record
		if !alreadyComplete {
			s.persistSubmission(ctx, st)
		}
	}
	return resp, nil
}

// EndSession discards a session's state, whether or not the
// conversation finished.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	ctx, span := tracer.Start(ctx, "intake.end_session")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	unlock := s.lockSession(sessionID)
	defer unlock()

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("intake: failed to end session: %w", err)
	}
	s.forgetLock(sessionID)
	s.logger.WithSession(sessionID).Info("session ended")
	return nil
}

// persistSubmission writes the finalized record. A storage failure is
// logged but does not fail the turn; the completed state remains in
// the session store for manual recovery.
func (s *Service) persistSubmission(ctx context.Context, st *dialogue.State) {
	if s.submissions == nil {
		return
	}
	sub := &records.Submission{
		SessionID:   st.SessionID,
		Record:      st.Record,
		Transcript:  st.Transcript,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.submissions.Save(ctx, sub); err != nil {
		s.logger.WithSession(st.SessionID).Error("failed to persist submission", "error", err.Error())
		return
	}
	s.logger.WithSession(st.SessionID).Info("submission persisted",
		"urgency", string(st.Record.Urgency),
		"subcategory", string(st.Record.Subcategory),
	)
}

func (s *Service) lockSession(sessionID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (s *Service) forgetLock(sessionID string) {
	s.mu.Lock()
	delete(s.locks, sessionID)
	s.mu.Unlock()
}
