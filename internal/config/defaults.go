package config

import "time"

const (
	// DefaultProfileBaseURL is the Gravatar endpoint serving <hash>.json profiles.
	DefaultProfileBaseURL = "https://www.gravatar.com"

	// DefaultMailboxFile is the list file looked up inside the config directory.
	DefaultMailboxFile = "mail.txt"

	// DefaultDetailTemplate renders the detail card of a contact.
	DefaultDetailTemplate = `{{ .Name }}{{ if .Placeholder }} (unresolved){{ end }}
  email:  {{ .Email }}
  status: {{ ternary "online" "offline" .Active }}
  avatar: {{ default "none" .AvatarURL }}{{ if .Avatar }} ({{ len .Avatar }} bytes){{ end }}
  id:     {{ .ID | trunc 12 }}`
)

// GetDefaultConfig returns the default configuration for contacts.
func GetDefaultConfig() ContactsConfig {
	return ContactsConfig{
		Mailbox: MailboxConfig{
			Path:     DefaultMailboxFile,
			Debounce: 300 * time.Millisecond,
		},
		Profile: ProfileConfig{
			BaseURL:     DefaultProfileBaseURL,
			AvatarSize:  100,
			Scale:       2,
			Timeout:     5 * time.Second,
			MaxRetries:  3,
			Concurrency: 8,
		},
		View: ViewConfig{
			Layout:         LayoutList,
			GridColumns:    3,
			DetailTemplate: DefaultDetailTemplate,
		},
		Simulate: SimulateConfig{
			MaxPerKind:      3,
			MinimumEntities: 2,
		},
		LogLevel: "info",
	}
}
