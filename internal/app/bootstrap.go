package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/giantswarm/contacts/internal/config"
	"github.com/giantswarm/contacts/internal/mailbox"
	"github.com/giantswarm/contacts/internal/view"
	"github.com/giantswarm/contacts/pkg/logging"
)

// Application bootstraps contacts: it loads the configuration, builds the
// services and performs the one-time initial load of the collection.
//
// The Application follows a two-phase initialization pattern:
//  1. NewApplication: configure logging, load configuration, create services
//  2. Session: read the mailbox list and resolve every address, exactly once
//
// Example usage:
//
//	application, err := app.NewApplication(app.NewConfig(false, false, ""))
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	session, err := application.Session(ctx)
type Application struct {
	config   *Config
	contacts config.ContactsConfig
	services *Services

	// LogChannel carries log entries in interactive mode.
	LogChannel <-chan logging.LogEntry

	progress io.Writer

	once    sync.Once
	session *Session
	err     error
}

// NewApplication creates and initializes a new application instance with the provided configuration.
//
// Configuration Loading Behavior:
//   - If cfg.Contacts is set: it is used as is
//   - If cfg.ConfigPath is set: config.yaml is loaded from that directory
//   - Otherwise: config.yaml is loaded from ~/.config/contacts
func NewApplication(cfg *Config) (*Application, error) {
	contacts, err := resolveContactsConfig(cfg)
	if err != nil {
		return nil, err
	}

	appLogLevel, ok := logging.ParseLevel(contacts.LogLevel)
	if !ok {
		appLogLevel = logging.LevelInfo
	}
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}

	a := &Application{config: cfg, contacts: contacts, progress: os.Stderr}

	var logOutput io.Writer = os.Stderr
	switch {
	case cfg.Silent:
		logOutput = io.Discard
		a.progress = nil
		logging.InitForCLI(appLogLevel, logOutput)
	case cfg.Interactive:
		a.LogChannel = logging.InitForREPL(appLogLevel)
	default:
		logging.InitForCLI(appLogLevel, logOutput)
	}

	services, err := InitializeServices(contacts, !cfg.Silent)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	a.services = services

	return a, nil
}

func resolveContactsConfig(cfg *Config) (config.ContactsConfig, error) {
	contacts, err := loadContactsConfig(cfg)
	if err != nil {
		return config.ContactsConfig{}, err
	}
	if cfg.Seed != 0 {
		contacts.Simulate.Seed = cfg.Seed
	}
	return contacts, nil
}

func loadContactsConfig(cfg *Config) (config.ContactsConfig, error) {
	if cfg.Contacts != nil {
		if err := config.Validate(*cfg.Contacts); err != nil {
			return config.ContactsConfig{}, fmt.Errorf("invalid contacts configuration: %w", err)
		}
		return *cfg.Contacts, nil
	}

	configPath := cfg.ConfigPath
	if configPath == "" {
		var err error
		configPath, err = config.GetDefaultConfigPath()
		if err != nil {
			return config.ContactsConfig{}, err
		}
	}

	contacts, err := config.LoadConfig(configPath)
	if err != nil {
		return config.ContactsConfig{}, fmt.Errorf("failed to load contacts configuration from path %s: %w", configPath, err)
	}
	return contacts, nil
}

// ContactsConfig returns the effective configuration.
func (a *Application) ContactsConfig() config.ContactsConfig {
	return a.contacts
}

// Services returns the application services.
func (a *Application) Services() *Services {
	return a.services
}

// SetProgressOutput redirects the loading spinner; nil disables it.
func (a *Application) SetProgressOutput(w io.Writer) {
	a.progress = w
}

// Session performs the initial load on first call and returns the same
// session afterwards.
func (a *Application) Session(ctx context.Context) (*Session, error) {
	a.once.Do(func() {
		a.session, a.err = a.bootstrap(ctx)
	})
	return a.session, a.err
}

func (a *Application) bootstrap(ctx context.Context) (*Session, error) {
	emails, err := mailbox.Load(a.contacts.Mailbox.Path)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load mailbox list")
		return nil, err
	}

	var s *spinner.Spinner
	if a.progress != nil && len(emails) > 0 {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(a.progress))
		s.Suffix = fmt.Sprintf(" Resolving %d contacts...", len(emails))
		s.Start()
	}

	resolver := a.services.NewResolver(func(done, total int) {
		if s == nil {
			return
		}
		s.Lock()
		s.Suffix = fmt.Sprintf(" Resolving contacts %d/%d...", done, total)
		s.Unlock()
	})
	collection := resolver.ResolveAll(ctx, emails)

	if s != nil {
		s.Stop()
	}

	placeholders := 0
	for _, e := range collection {
		if e.Placeholder {
			placeholders++
		}
	}
	logging.Info("Bootstrap", "Loaded %d contacts (%d unresolved)", len(collection), placeholders)

	layout, err := view.ParseLayout(a.contacts.View.Layout)
	if err != nil {
		return nil, err
	}

	return NewSession(collection, SessionConfig{
		Generator: a.services.Generator,
		Pool:      a.services.Pool,
		Resolver:  resolver,
		Metrics:   a.services.Metrics,
		Options:   a.services.Options,
		Layout:    layout,
	}), nil
}
