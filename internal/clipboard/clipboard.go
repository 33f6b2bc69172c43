// Package clipboard wraps the system clipboard as a small capability the
// router can take as an interface, so input/output precedence is testable
// without a display server.
package clipboard

import (
	"github.com/atotto/clipboard"

	"github.com/deepl-go/deepl-cli/internal/apperr"
)

// Clipboard is the capability the I/O router consumes.
type Clipboard interface {
	Available() bool
	Read() (string, error)
	Write(text string) error
}

// System is the real clipboard backed by the platform binding.
type System struct{}

// Available reports whether the current platform/build can reach a
// clipboard at all.
func (System) Available() bool {
	return !clipboard.Unsupported
}

func (System) Read() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", apperr.Wrap(apperr.KindInput, err, "Failed to read from clipboard: %v", err)
	}
	return text, nil
}

func (System) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return apperr.Wrap(apperr.KindOutput, err, "Failed to write to clipboard: %v", err)
	}
	return nil
}
