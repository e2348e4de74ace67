package app

import (
	"context"
	"errors"
	"sync"

	"github.com/giantswarm/contacts/internal/mailbox"
	"github.com/giantswarm/contacts/internal/mutation"
	"github.com/giantswarm/contacts/internal/profile"
	"github.com/giantswarm/contacts/internal/reconciler"
	"github.com/giantswarm/contacts/internal/view"
	"github.com/giantswarm/contacts/pkg/logging"
)

// ErrMutationDisabled is returned by Simulate once the collection has
// shrunk below the configured minimum.
var ErrMutationDisabled = errors.New("simulate changes is disabled: too few contacts")

// EntityResolver turns an email address into a contact. It must not fail.
type EntityResolver interface {
	Resolve(ctx context.Context, email string) reconciler.Entity
}

// SessionConfig wires a Session.
type SessionConfig struct {
	Generator mutation.Generator
	Pool      *mutation.Pool
	Resolver  EntityResolver
	Metrics   *reconciler.Metrics
	Options   reconciler.Options
	Layout    view.Layout
}

// Session owns the contact collection after the initial load. Every later
// change, simulated or read from the mailbox file, goes through Apply.
type Session struct {
	mu sync.Mutex

	collection      reconciler.Collection
	mutationEnabled bool

	model     *view.Model
	generator mutation.Generator
	pool      *mutation.Pool
	resolver  EntityResolver
	metrics   *reconciler.Metrics
	opts      reconciler.Options
}

// NewSession starts a session with the initially loaded collection.
func NewSession(initial reconciler.Collection, cfg SessionConfig) *Session {
	if cfg.Metrics == nil {
		cfg.Metrics = reconciler.NewMetrics()
	}
	minimum := cfg.Options.MinimumEntities
	if minimum <= 0 {
		minimum = reconciler.DefaultMinimumEntities
	}
	return &Session{
		collection:      initial.Clone(),
		mutationEnabled: len(initial) >= minimum,
		model:           view.NewModel(initial, cfg.Layout),
		generator:       cfg.Generator,
		pool:            cfg.Pool,
		resolver:        cfg.Resolver,
		metrics:         cfg.Metrics,
		opts:            cfg.Options,
	}
}

// Apply reconciles one batch against the collection and replays the result
// onto the view model.
func (s *Session) Apply(batch []reconciler.MutationRequest) reconciler.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(batch)
}

func (s *Session) applyLocked(batch []reconciler.MutationRequest) reconciler.Result {
	prev := s.collection
	res := reconciler.Reconcile(prev, batch, s.opts)

	s.model.Apply(res)
	if s.pool != nil {
		s.pool.Recycle(prev, res.Next, batch)
	}
	s.metrics.Record(res)

	if s.mutationEnabled && !res.MutationEnabled {
		logging.Info("Session", "Only %d contacts left, simulate changes disabled", len(res.Next))
	}
	s.collection = res.Next
	s.mutationEnabled = res.MutationEnabled
	return res
}

// Simulate runs up to rounds generated batches. It stops early once mutation
// is disabled and fails with ErrMutationDisabled if no round could run.
func (s *Session) Simulate(rounds int) ([]reconciler.Result, error) {
	if rounds <= 0 {
		rounds = 1
	}
	if s.generator == nil {
		return nil, errors.New("no mutation generator configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var results []reconciler.Result
	for range rounds {
		if !s.mutationEnabled {
			break
		}
		batch := s.generator.Next(s.collection.Clone())
		results = append(results, s.applyLocked(batch))
	}
	if len(results) == 0 {
		return nil, ErrMutationDisabled
	}
	return results, nil
}

// ApplyFileChange brings the collection in line with a re-read mailbox list.
// New addresses are resolved before the collection is locked; an address
// that shows up only after resolution started gets a placeholder.
func (s *Session) ApplyFileChange(ctx context.Context, emails []string) []reconciler.Result {
	change := mailbox.Diff(s.Collection(), emails)
	if change.Empty() {
		return nil
	}

	resolved := make(map[string]reconciler.Entity, len(change.Added))
	for _, a := range change.Added {
		if s.resolver != nil {
			resolved[a.Email] = s.resolver.Resolve(ctx, a.Email)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	change = mailbox.Diff(s.collection, emails)
	var results []reconciler.Result
	for _, batch := range change.Batches(func(email string) reconciler.Entity {
		if e, ok := resolved[email]; ok {
			return e
		}
		return profile.Placeholder(email)
	}) {
		results = append(results, s.applyLocked(batch))
	}

	logging.Info("Session", "Mailbox change applied: %d removed, %d added", len(change.Removed), len(change.Added))
	return results
}

// Collection returns a copy of the current collection.
func (s *Session) Collection() reconciler.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection.Clone()
}

// MutationEnabled reports whether simulate changes is still available.
func (s *Session) MutationEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutationEnabled
}

// Model returns the view model that follows the collection.
func (s *Session) Model() *view.Model {
	return s.model
}

// Metrics returns the reconciliation metrics of the session.
func (s *Session) Metrics() *reconciler.Metrics {
	return s.metrics
}
