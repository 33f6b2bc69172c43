// Package language owns the fixed set of language codes the translation
// service accepts and the validation policy around them.
package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/deepl-go/deepl-cli/internal/apperr"
)

// supported is the service's accepted code list. Regional variants (EN-GB,
// PT-BR, ...) are distinct codes, not aliases.
var supported = []string{
	"BG", "CS", "DA", "DE", "EL", "EN", "EN-GB", "EN-US",
	"ES", "ET", "FI", "FR", "HU", "ID", "IT", "JA", "KO",
	"LT", "LV", "NB", "NL", "PL", "PT", "PT-BR", "PT-PT",
	"RO", "RU", "SK", "SL", "SV", "TR", "UK", "ZH",
}

// sampleSize is how many codes a validation error shows before pointing at
// --list-languages.
const sampleSize = 10

// Set is an immutable view over the supported codes. Construct it once at
// startup and inject it; nothing reads the package-level list directly
// except New.
type Set struct {
	codes []string
	index map[string]struct{}
}

// New builds the supported-language set.
func New() *Set {
	s := &Set{
		codes: make([]string, len(supported)),
		index: make(map[string]struct{}, len(supported)),
	}
	copy(s.codes, supported)
	for _, c := range supported {
		s.index[c] = struct{}{}
	}
	return s
}

// Normalize uppercases a candidate code for comparison and for the wire.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Contains reports membership, case-insensitively.
func (s *Set) Contains(code string) bool {
	if code == "" {
		return false
	}
	_, ok := s.index[Normalize(code)]
	return ok
}

// All returns a copy of the supported codes in their canonical order.
func (s *Set) All() []string {
	out := make([]string, len(s.codes))
	copy(out, s.codes)
	return out
}

// Name returns an English display name for a supported code, or "" when the
// tag cannot be parsed.
func (s *Set) Name(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.English.Tags().Name(tag)
}

// ValidateTarget normalizes and checks the mandatory target code. The error
// shows a sample of valid codes and references the listing mode.
func (s *Set) ValidateTarget(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", apperr.New(apperr.KindValidation,
			"Target language is required for translation\nUse --help for usage information")
	}
	norm := Normalize(code)
	if !s.Contains(norm) {
		sample := strings.Join(s.codes[:sampleSize], ", ")
		return "", apperr.New(apperr.KindValidation,
			"Unsupported target language: %s\nAvailable languages: %s... (use --list-languages for full list)",
			norm, sample)
	}
	return norm, nil
}

// ValidateSource normalizes and checks the optional source code. Empty input
// means auto-detect and is never an error.
func (s *Set) ValidateSource(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}
	norm := Normalize(code)
	if !s.Contains(norm) {
		return "", apperr.New(apperr.KindValidation,
			"Unsupported source language: %s\nUse --list-languages to see available languages", norm)
	}
	return norm, nil
}
