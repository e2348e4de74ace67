// Package config provides configuration management for contacts.
//
// Configuration is loaded from a single directory. The default directory is
// ~/.config/contacts; commands accept --config-path to use another one.
//
// # Configuration Directory
//
//   - config.yaml: main configuration file (optional, defaults apply)
//   - mail.txt: default list of email addresses, one per line
//
// # File Format
//
//	mailbox:
//	  path: mail.txt
//	  watch: true
//	profile:
//	  baseURL: https://www.gravatar.com
//	  avatarSize: 100
//	  scale: 2
//	  timeout: 5s
//	  maxRetries: 3
//	  concurrency: 8
//	view:
//	  layout: grid
//	  gridColumns: 4
//	simulate:
//	  seed: 42
//	  maxPerKind: 3
//	  minimumEntities: 2
//	logLevel: info
//
// Loading errors are returned as ConfigurationError values that carry the
// file, the error type (io, parse, validation) and, for YAML problems, the
// offending line.
package config
