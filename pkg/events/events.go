// Package events publishes domain events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectMasteryUpdated      = "mastery.updated"
	SubjectAssessmentCompleted = "assessment.completed"
)

// MasteryUpdated is emitted after every persisted mastery change.
type MasteryUpdated struct {
	UserID     string    `json:"user_id"`
	SkillID    string    `json:"skill_id"`
	Subject    string    `json:"subject"`
	Source     string    `json:"source"` // assessment | practice
	Previous   float64   `json:"previous_mastery"`
	Current    float64   `json:"new_mastery"`
	Correct    bool      `json:"is_correct"`
	Attempts   int       `json:"attempts"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AssessmentCompleted is emitted once when an assessment finishes.
type AssessmentCompleted struct {
	AssessmentID   string             `json:"assessment_id"`
	UserID         string             `json:"user_id"`
	Subject        string             `json:"subject"`
	Correct        int                `json:"correct"`
	Total          int                `json:"total"`
	SkillMasteries map[string]float64 `json:"skill_masteries"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

// Publisher sends JSON encoded events.
type Publisher interface {
	Publish(ctx context.Context, subject string, v any) error
	Close() error
}

// NATSPublisher publishes to "<prefix>.<subject>".
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
}

func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("adaptive-edu-backend"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{nc: nc, prefix: prefix}, nil
}

func (p *NATSPublisher) subject(s string) string {
	if p.prefix == "" {
		return s
	}
	return p.prefix + "." + s
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, v any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.nc.Publish(p.subject(subject), data)
}

func (p *NATSPublisher) Close() error {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return err
	}
	return nil
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

// Message is one event captured by a Recorder.
type Message struct {
	Subject string
	Payload any
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Publish(_ context.Context, subject string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Subject: subject, Payload: v})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Messages returns the events published on subject, or all events when
// subject is empty.
func (r *Recorder) Messages(subject string) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Message
	for _, m := range r.messages {
		if subject == "" || m.Subject == subject {
			out = append(out, m)
		}
	}
	return out
}
