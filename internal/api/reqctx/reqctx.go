// Package reqctx holds the per-request state shared by the auth gate, the
// handlers and the response normalizer.
package reqctx

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/esteveslima/media-collection/internal/core/domain"
)

const stateKey = "reqctx.state"

// Capability is a bit set describing what the normalizer may do with a
// channel's responses.
type Capability uint8

const (
	// CapShapeJSON allows the normalizer to write a JSON error body.
	CapShapeJSON Capability = 1 << iota
)

// Channel names the transport a request arrived on.
type Channel struct {
	Name string
	Caps Capability
}

// Has reports whether every capability in c is set.
func (ch Channel) Has(c Capability) bool { return ch.Caps&c == c }

var (
	ChannelREST    = Channel{Name: "rest", Caps: CapShapeJSON}
	ChannelGraphQL = Channel{Name: "graphql"}
)

var ErrIdentityAttached = errors.New("reqctx: identity already attached")

// State is created once per request by the normalizer's tracking middleware.
type State struct {
	StartedAt time.Time
	Channel   Channel
	// Body is a copy of the raw request body, kept for the log line.
	Body []byte
	// Stack is set when the handler panicked.
	Stack []byte
	// Errors collects resolver failures on channels that report errors in
	// the response body instead of the status line.
	Errors []error

	identity *domain.Identity
	logged   bool
}

// New returns a State started now on ch.
func New(ch Channel) *State {
	return &State{StartedAt: time.Now(), Channel: ch}
}

// AttachIdentity stores id. A second call fails and leaves the first
// identity in place.
func (s *State) AttachIdentity(id domain.Identity) error {
	if s.identity != nil {
		return ErrIdentityAttached
	}
	s.identity = &id
	return nil
}

// Identity returns the attached identity, if any.
func (s *State) Identity() (domain.Identity, bool) {
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

// MarkLogged flips the logged flag and reports whether the caller is the
// first to do so. Only that caller may emit the request log line.
func (s *State) MarkLogged() bool {
	if s.logged {
		return false
	}
	s.logged = true
	return true
}

// Logged reports whether the request log line has been emitted.
func (s *State) Logged() bool { return s.logged }

// Elapsed returns the time since the request started.
func (s *State) Elapsed() time.Duration { return time.Since(s.StartedAt) }

// Attach stores s on c.
func Attach(c echo.Context, s *State) { c.Set(stateKey, s) }

// From returns the state attached to c. Requests that bypassed the tracking
// middleware get a fresh REST state, attached on first use.
func From(c echo.Context) *State {
	if s, ok := c.Get(stateKey).(*State); ok {
		return s
	}
	s := New(ChannelREST)
	Attach(c, s)
	return s
}

// Identity is shorthand for From(c).Identity().
func Identity(c echo.Context) (domain.Identity, bool) {
	return From(c).Identity()
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s, for code that only sees a
// context.Context (e.g. GraphQL resolvers).
func NewContext(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the state stored by NewContext.
func FromContext(ctx context.Context) (*State, bool) {
	s, ok := ctx.Value(ctxKey{}).(*State)
	return s, ok
}

// RecordError appends err to the state's collected errors.
func (s *State) RecordError(err error) {
	s.Errors = append(s.Errors, err)
}
