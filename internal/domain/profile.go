package domain

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type profileCtxKey struct{}

// Span is one named step of a job. Sub holds the steps of a nested call.
type Span struct {
	Name      string  `json:"name"`
	ElapsedMs *int64  `json:"elapsedMs"`
	Sub       []*Span `json:"sub,omitempty"`

	startedAt time.Time
	sub       *Profile
}

func (s *Span) End() {
	if s.ElapsedMs == nil {
		ms := time.Since(s.startedAt).Milliseconds()
		s.ElapsedMs = &ms
	}
	if s.sub != nil {
		s.Sub = s.sub.snapshot()
	}
}

// Profile records sequential spans for a job run and is stored on the run
// once the job finishes. Safe for concurrent use.
type Profile struct {
	mu        sync.Mutex
	spans     []*Span
	startedAt time.Time
	totalMs   *int64
}

func NewProfile() (*Profile, func()) {
	p := &Profile{
		spans:     []*Span{},
		startedAt: time.Now(),
	}
	return p, p.End
}

// GetProfile returns the profile attached to ctx, or a detached one so
// callers outside a job can still record spans.
func GetProfile(ctx context.Context) (*Profile, func()) {
	p, ok := ctx.Value(profileCtxKey{}).(*Profile)
	if !ok || p == nil {
		return NewProfile()
	}
	return p, p.End
}

func ContextWithProfile(ctx context.Context, p *Profile) context.Context {
	return context.WithValue(ctx, profileCtxKey{}, p)
}

// NewCtxWithSubProfile nests the spans recorded under the returned context
// inside span.
func NewCtxWithSubProfile(ctx context.Context, span *Span) context.Context {
	sub, _ := NewProfile()
	span.sub = sub
	return ContextWithProfile(ctx, sub)
}

func (p *Profile) End() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.totalMs == nil {
		ms := time.Since(p.startedAt).Milliseconds()
		p.totalMs = &ms
	}
	if n := len(p.spans); n > 0 {
		p.spans[n-1].End()
	}
}

// StartNewSpan ends the previous span and begins the next.
func (p *Profile) StartNewSpan(name string) (*Span, func()) {
	span := &Span{
		Name:      name,
		startedAt: time.Now(),
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.spans); n > 0 {
		p.spans[n-1].End()
	}
	p.spans = append(p.spans, span)
	return span, span.End
}

func (p *Profile) snapshot() []*Span {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Span, len(p.spans))
	copy(out, p.spans)
	return out
}

func (p *Profile) ToJsonBytes() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return json.Marshal(struct {
		TotalMs *int64  `json:"totalMs"`
		Spans   []*Span `json:"spans"`
	}{
		TotalMs: p.totalMs,
		Spans:   p.spans,
	})
}
