// Package mailbox reads the list of email addresses contacts are built from
// and turns edits of that list into reconciler batches.
package mailbox

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/giantswarm/contacts/pkg/logging"
)

// Load reads a newline-separated list of email addresses from path.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mailbox list %s: %w", path, err)
	}
	defer f.Close()

	emails, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read mailbox list %s: %w", path, err)
	}
	logging.Info("Mailbox", "Loaded %d addresses from %s", len(emails), path)
	return emails, nil
}

// Parse reads one address per line. Surrounding whitespace is trimmed,
// blank lines and lines starting with # are skipped, and repeated addresses
// (compared case-insensitively) keep their first occurrence.
func Parse(r io.Reader) ([]string, error) {
	var emails []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key := strings.ToLower(line)
		if seen[key] {
			logging.Debug("Mailbox", "Skipping repeated address %s", line)
			continue
		}
		seen[key] = true
		emails = append(emails, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return emails, nil
}
