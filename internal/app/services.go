package app

import (
	"fmt"

	"github.com/giantswarm/contacts/internal/config"
	"github.com/giantswarm/contacts/internal/mutation"
	"github.com/giantswarm/contacts/internal/profile"
	"github.com/giantswarm/contacts/internal/reconciler"
	"github.com/giantswarm/contacts/internal/view"
	"github.com/giantswarm/contacts/pkg/logging"
)

// Services holds the collaborators a session is built from.
//
// Everything here is stateless or safe to share; per-session state lives in
// Session.
type Services struct {
	// Client talks to the profile lookup service.
	Client *profile.Client

	// ResolverConfig is the template for resolvers handed out by NewResolver.
	ResolverConfig profile.ResolverConfig

	// Renderer draws the contact list and detail cards.
	Renderer *view.Renderer

	// Pool supplies contacts for simulated inserts.
	Pool *mutation.Pool

	// Generator proposes simulated batches.
	Generator mutation.Generator

	// Metrics aggregates reconciliation outcomes.
	Metrics *reconciler.Metrics

	// Options tunes every reconcile of the session.
	Options reconciler.Options
}

// InitializeServices creates the services described by cfg.
func InitializeServices(cfg config.ContactsConfig, color bool) (*Services, error) {
	client := profile.NewClient(profile.ClientConfig{
		BaseURL:    cfg.Profile.BaseURL,
		Timeout:    cfg.Profile.Timeout,
		MaxRetries: cfg.Profile.MaxRetries,
	})

	renderer, err := view.NewRenderer(view.RendererConfig{
		GridColumns:    cfg.View.GridColumns,
		DetailTemplate: cfg.View.DetailTemplate,
		Color:          color,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	pool := mutation.NewPool(nil)
	generator := mutation.NewRandomGenerator(mutation.RandomConfig{
		Seed:       cfg.Simulate.Seed,
		MaxPerKind: cfg.Simulate.MaxPerKind,
		Pool:       pool,
	})
	logging.Debug("Services", "Simulation seed %d", generator.Seed())

	return &Services{
		Client: client,
		ResolverConfig: profile.ResolverConfig{
			AvatarSize:   cfg.Profile.AvatarSize,
			Scale:        cfg.Profile.Scale,
			FetchAvatars: cfg.Profile.ShouldFetchAvatars(),
			Concurrency:  cfg.Profile.Concurrency,
		},
		Renderer:  renderer,
		Pool:      pool,
		Generator: generator,
		Metrics:   reconciler.NewMetrics(),
		Options:   reconciler.Options{MinimumEntities: cfg.Simulate.MinimumEntities},
	}, nil
}

// NewResolver returns a resolver that reports ResolveAll progress to
// onProgress, which may be nil.
func (s *Services) NewResolver(onProgress func(done, total int)) *profile.Resolver {
	rc := s.ResolverConfig
	rc.OnProgress = onProgress
	return profile.NewResolver(s.Client, rc)
}
