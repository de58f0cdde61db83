package intake

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/carebridge/complaint-intake/internal/complaint"
	"github.com/carebridge/complaint-intake/internal/dialogue"
	"github.com/carebridge/complaint-intake/internal/nlu"
	"github.com/carebridge/complaint-intake/internal/records"
	"github.com/carebridge/complaint-intake/internal/session"
)

// fakePort drives the engine deterministically: the opening narrative
// classifies as a wait-time complaint with everything but the contact
// opt-in already extracted.
type fakePort struct{}

func (fakePort) Classify(ctx context.Context, text string) (*nlu.Classification, error) {
	return &nlu.Classification{
		Domain:      complaint.DomainManagement,
		Subcategory: complaint.SubWaitTime,
		Description: text,
		Extracted: map[string]string{
			complaint.FieldEventDate:  "yesterday",
			complaint.FieldTypeOfCare: "Specialist Clinic",
		},
	}, nil
}

func (fakePort) SelectMissingFields(ctx context.Context, rec *complaint.Record, candidates []string) ([]string, error) {
	return candidates, nil
}

func (fakePort) GenerateQuestion(ctx context.Context, fieldPath, conversationContext string) (string, error) {
	return "Could you share the " + fieldPath + "?", nil
}

func (fakePort) ExtractValue(ctx context.Context, question, fieldPath, reply string) (string, error) {
	return reply, nil
}

func (fakePort) JudgeValidity(ctx context.Context, question, reply, recordContext string) (*nlu.Judgement, error) {
	return &nlu.Judgement{}, nil
}

func (fakePort) ClassifyIntent(ctx context.Context, question, reply string) (string, error) {
	return nlu.IntentAnswer, nil
}

func (fakePort) ExtractContact(ctx context.Context, reply string) (*nlu.ContactDetails, error) {
	return &nlu.ContactDetails{}, nil
}

type memorySubmissions struct {
	mu    sync.Mutex
	saved []*records.Submission
}

func (m *memorySubmissions) Save(ctx context.Context, sub *records.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, sub)
	return nil
}

func newTestService(t *testing.T) (*Service, *memorySubmissions) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := session.NewStore(client, time.Hour)
	submissions := &memorySubmissions{}

	engine := dialogue.NewEngine(fakePort{},
		dialogue.WithDefaultLocation("Singapore General Hospital (SGH)"),
	)
	return NewService(engine, sessions, submissions, nil), submissions
}

func TestStartSessionCreatesState(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("expected a session ID")
	}
	if resp.Greeting == "" {
		t.Fatal("expected a greeting")
	}

	// A message against the new session should be accepted.
	if _, err := svc.HandleMessage(context.Background(), MessageRequest{
		SessionID: resp.SessionID,
		Message:   "I waited four hours at the clinic yesterday",
	}); err != nil {
		t.Fatalf("message after start: %v", err)
	}
}

func TestHandleMessageUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.HandleMessage(context.Background(), MessageRequest{
		SessionID: "missing",
		Message:   "hello",
	})
	if err != ErrSessionNotFound {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestConversationCompletesAndPersists(t *testing.T) {
	svc, submissions := newTestService(t)
	ctx := context.Background()

	start, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Narrative fills every situational field, so the first reply asks
	// for the contact opt-in.
	resp, err := svc.HandleMessage(ctx, MessageRequest{
		SessionID: start.SessionID,
		Message:   "I waited four hours at the specialist clinic yesterday",
	})
	if err != nil {
		t.Fatalf("first message: %v", err)
	}
	if resp.Completed {
		t.Fatal("conversation should not complete before the contact opt-in")
	}

	resp, err = svc.HandleMessage(ctx, MessageRequest{
		SessionID: start.SessionID,
		Message:   "no",
	})
	if err != nil {
		t.Fatalf("second message: %v", err)
	}
	if !resp.Completed {
		t.Fatalf("expected completion, got reply %q", resp.Reply)
	}
	if resp.Record == nil {
		t.Fatal("completed response must carry the record")
	}
	if resp.Record.Subcategory != complaint.SubWaitTime {
		t.Errorf("subcategory = %s, want WAIT_TIME", resp.Record.Subcategory)
	}

	if len(submissions.saved) != 1 {
		t.Fatalf("submissions saved = %d, want 1", len(submissions.saved))
	}
	sub := submissions.saved[0]
	if sub.SessionID != start.SessionID {
		t.Errorf("submission session = %q, want %q", sub.SessionID, start.SessionID)
	}
	if len(sub.Transcript) == 0 {
		t.Error("submission should carry the transcript")
	}

	// A message after completion is answered but not re-persisted.
	resp, err = svc.HandleMessage(ctx, MessageRequest{
		SessionID: start.SessionID,
		Message:   "one more thing",
	})
	if err != nil {
		t.Fatalf("post-completion message: %v", err)
	}
	if !resp.Completed {
		t.Error("completed flag should remain set")
	}
	if len(submissions.saved) != 1 {
		t.Errorf("submissions saved = %d after extra turn, want 1", len(submissions.saved))
	}
}

func TestEndSessionDeletesState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	start, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.EndSession(ctx, start.SessionID); err != nil {
		t.Fatalf("end: %v", err)
	}

	if _, err := svc.HandleMessage(ctx, MessageRequest{
		SessionID: start.SessionID,
		Message:   "hello",
	}); err != ErrSessionNotFound {
		t.Fatalf("err = %v, want ErrSessionNotFound after end", err)
	}
}
