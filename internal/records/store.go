// Package records persists finalized complaint submissions to
// PostgreSQL for the feedback team to investigate.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebridge/complaint-intake/internal/complaint"
	"github.com/carebridge/complaint-intake/internal/dialogue"
)

// ErrNotFound is returned when no submission exists for a session.
var ErrNotFound = errors.New("records: submission not found")

// Submission is one finalized complaint with its full conversation
// transcript.
type Submission struct {
	ID          string           `json:"id"`
	SessionID   string           `json:"sessionId"`
	Record      complaint.Record `json:"record"`
	Transcript  []dialogue.Turn  `json:"transcript"`
	SubmittedAt time.Time        `json:"submittedAt"`
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store writes and reads submissions.
type Store struct {
	pool querier
}

// NewStore creates a Postgres-backed submission store. Panics if pool
// is nil.
func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("records: pgx pool required")
	}
	return &Store{pool: pool}
}

func newStoreWithQuerier(q querier) *Store {
	if q == nil {
		panic("records: querier required")
	}
	return &Store{pool: q}
}

// Save inserts a finalized submission. The urgency and subcategory are
// denormalized into columns so the triage queue can filter without
// unpacking the JSON payload.
func (s *Store) Save(ctx context.Context, sub *Submission) error {
	if sub == nil {
		return errors.New("records: submission cannot be nil")
	}
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}

	recordJSON, err := json.Marshal(sub.Record)
	if err != nil {
		return fmt.Errorf("records: failed to encode record: %w", err)
	}
	transcriptJSON, err := json.Marshal(sub.Transcript)
	if err != nil {
		return fmt.Errorf("records: failed to encode transcript: %w", err)
	}

	if _, err := s.pool.Exec(ctx, `
		INSERT INTO complaint_submissions (
			id, session_id, domain, subcategory, urgency,
			record, transcript, submitted_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (session_id) DO UPDATE
		SET record = EXCLUDED.record,
		    transcript = EXCLUDED.transcript,
		    urgency = EXCLUDED.urgency,
		    submitted_at = EXCLUDED.submitted_at
	`, sub.ID, sub.SessionID, string(sub.Record.Domain), string(sub.Record.Subcategory),
		string(sub.Record.Urgency), recordJSON, transcriptJSON, sub.SubmittedAt); err != nil {
		return fmt.Errorf("records: failed to persist submission: %w", err)
	}
	return nil
}

// GetBySession loads the submission for a session ID.
func (s *Store) GetBySession(ctx context.Context, sessionID string) (*Submission, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, session_id, record, transcript, submitted_at
		FROM complaint_submissions
		WHERE session_id = $1
	`, sessionID)

	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("records: failed to fetch submission: %w", err)
	}
	return sub, nil
}

// ListByUrgency returns the most recent submissions at a given urgency
// level, newest first.
func (s *Store) ListByUrgency(ctx context.Context, urgency complaint.UrgencyLevel, limit int) ([]*Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, record, transcript, submitted_at
		FROM complaint_submissions
		WHERE urgency = $1
		ORDER BY submitted_at DESC
		LIMIT $2
	`, string(urgency), limit)
	if err != nil {
		return nil, fmt.Errorf("records: failed to list submissions: %w", err)
	}
	defer rows.Close()

	var out []*Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("records: failed to scan submission: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("records: failed to list submissions: %w", err)
	}
	return out, nil
}

func scanSubmission(row pgx.Row) (*Submission, error) {
	var (
		sub            Submission
		recordJSON     []byte
		transcriptJSON []byte
	)
	if err := row.Scan(&sub.ID, &sub.SessionID, &recordJSON, &transcriptJSON, &sub.SubmittedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(recordJSON, &sub.Record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	if len(transcriptJSON) > 0 {
		if err := json.Unmarshal(transcriptJSON, &sub.Transcript); err != nil {
			return nil, fmt.Errorf("failed to decode transcript: %w", err)
		}
	}
	return &sub, nil
}
