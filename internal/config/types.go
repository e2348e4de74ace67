package config

import "time"

// ContactsConfig is the top-level configuration structure for contacts.
type ContactsConfig struct {
	Mailbox  MailboxConfig  `yaml:"mailbox"`
	Profile  ProfileConfig  `yaml:"profile"`
	View     ViewConfig     `yaml:"view"`
	Simulate SimulateConfig `yaml:"simulate"`
	LogLevel string         `yaml:"logLevel,omitempty"` // debug, info, warn, error (default: info)
}

// MailboxConfig describes where the list of email addresses comes from.
type MailboxConfig struct {
	Path     string        `yaml:"path,omitempty"`     // Newline-separated list of emails (default: <config>/mail.txt)
	Watch    bool          `yaml:"watch,omitempty"`    // Reconcile edits to the list file while the shell runs
	Debounce time.Duration `yaml:"debounce,omitempty"` // Quiet period before a file change is applied (default: 300ms)
}

// ProfileConfig configures the Gravatar lookup for each email.
type ProfileConfig struct {
	BaseURL      string        `yaml:"baseURL,omitempty"`      // Profile endpoint (default: https://www.gravatar.com)
	AvatarSize   int           `yaml:"avatarSize,omitempty"`   // Avatar edge length in points (default: 100)
	Scale        float64       `yaml:"scale,omitempty"`        // Screen scale multiplied into the size query (default: 2)
	Timeout      time.Duration `yaml:"timeout,omitempty"`      // Per-request timeout (default: 5s)
	MaxRetries   uint          `yaml:"maxRetries,omitempty"`   // Attempts per request including the first (default: 3)
	Concurrency  int           `yaml:"concurrency,omitempty"`  // Parallel lookups (default: 8)
	FetchAvatars *bool         `yaml:"fetchAvatars,omitempty"` // Download avatar bytes (default: true)
}

// ShouldFetchAvatars reports whether avatar bytes are downloaded.
func (p ProfileConfig) ShouldFetchAvatars() bool {
	return p.FetchAvatars == nil || *p.FetchAvatars
}

// ViewConfig configures the presentation of the contact list.
type ViewConfig struct {
	Layout         string `yaml:"layout,omitempty"`         // list or grid (default: list)
	GridColumns    int    `yaml:"gridColumns,omitempty"`    // Columns in grid layout (default: 3)
	DetailTemplate string `yaml:"detailTemplate,omitempty"` // text/template for the detail card
}

// SimulateConfig configures the "simulate changes" generator.
type SimulateConfig struct {
	Seed            uint64 `yaml:"seed,omitempty"`            // 0 picks a seed from the clock
	MaxPerKind      int    `yaml:"maxPerKind,omitempty"`      // Upper bound of requests per mutation kind (default: 3)
	MinimumEntities int    `yaml:"minimumEntities,omitempty"` // Disable simulation below this many contacts (default: 2)
}

const (
	// LayoutList renders one contact per row.
	LayoutList = "list"
	// LayoutGrid renders contacts as tiles.
	LayoutGrid = "grid"
)
