package profile

import (
	"context"
	"math/rand/v2"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/contacts/internal/reconciler"
	"github.com/giantswarm/contacts/pkg/logging"
)

const (
	// PlaceholderName is shown for contacts whose profile could not be resolved.
	PlaceholderName = "Person Name"

	// PlaceholderEmail stands in when the identifier itself is empty.
	PlaceholderEmail = "person@server.com"
)

// StatusFunc decides the online status of a resolved contact.
type StatusFunc func(email string) bool

// RandomStatus reports a coin flip; the lookup service has no presence data.
func RandomStatus(string) bool {
	return rand.IntN(2) == 0
}

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	AvatarSize   int
	Scale        float64
	FetchAvatars bool
	Concurrency  int
	Status       StatusFunc

	// OnProgress is called after each lookup of ResolveAll completes.
	OnProgress func(done, total int)
}

// Resolver turns email addresses into contact entities.
type Resolver struct {
	client *Client
	cfg    ResolverConfig
}

// NewResolver creates a Resolver backed by client.
func NewResolver(client *Client, cfg ResolverConfig) *Resolver {
	if cfg.Status == nil {
		cfg.Status = RandomStatus
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.AvatarSize <= 0 {
		cfg.AvatarSize = 100
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	return &Resolver{client: client, cfg: cfg}
}

// Placeholder returns the template entity used when resolution fails. It
// keeps the identity of the requested address so the contact can still be
// addressed by later batches.
func Placeholder(email string) reconciler.Entity {
	normalized := Normalize(email)
	if normalized == "" {
		normalized = PlaceholderEmail
	}
	return reconciler.Entity{
		ID:          Hash(normalized),
		Email:       normalized,
		Name:        PlaceholderName,
		Active:      false,
		Placeholder: true,
	}
}

// Resolve looks up a single email. It never fails: any error is logged and
// the placeholder entity is returned instead.
func (r *Resolver) Resolve(ctx context.Context, email string) reconciler.Entity {
	normalized := Normalize(email)
	if normalized == "" {
		return Placeholder(email)
	}

	entry, err := r.client.FetchProfile(ctx, normalized)
	if err != nil {
		logging.Warn("Profile", "Using placeholder for %s: %v", normalized, err)
		return Placeholder(normalized)
	}

	e := reconciler.Entity{
		ID:     Hash(normalized),
		Email:  normalized,
		Name:   entry.DisplayName,
		Active: r.cfg.Status(normalized),
	}
	if e.Name == "" {
		e.Name = entry.PreferredUsername
	}
	if e.Name == "" {
		e.Name = PlaceholderName
	}

	avatarURL, err := AvatarURL(entry, r.cfg.AvatarSize, r.cfg.Scale)
	if err != nil {
		logging.Warn("Profile", "Using placeholder for %s: %v", normalized, err)
		return Placeholder(normalized)
	}
	e.AvatarURL = avatarURL

	if r.cfg.FetchAvatars {
		avatar, err := r.client.FetchAvatar(ctx, avatarURL)
		if err != nil {
			logging.Warn("Profile", "Using placeholder for %s: avatar: %v", normalized, err)
			return Placeholder(normalized)
		}
		e.Avatar = avatar
	}

	logging.Debug("Profile", "Resolved %s as %q", normalized, e.Name)
	return e
}

// ResolveAll resolves emails concurrently and returns the entities in input
// order.
func (r *Resolver) ResolveAll(ctx context.Context, emails []string) reconciler.Collection {
	out := make(reconciler.Collection, len(emails))
	var done atomic.Int64

	var g errgroup.Group
	g.SetLimit(r.cfg.Concurrency)
	for i, email := range emails {
		g.Go(func() error {
			out[i] = r.Resolve(ctx, email)
			n := done.Add(1)
			if r.cfg.OnProgress != nil {
				r.cfg.OnProgress(int(n), len(emails))
			}
			return nil
		})
	}
	_ = g.Wait()

	placeholders := 0
	for _, e := range out {
		if e.Placeholder {
			placeholders++
		}
	}
	logging.Info("Profile", "Resolved %d contacts (%d placeholders)", len(out), placeholders)
	return out
}
