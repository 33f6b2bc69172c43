/*
Copyright © 2025 The deepl-cli authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/deepl-go/deepl-cli/internal/translator"
)

const (
	usageBarWidth = 40

	// Warning thresholds, in percent of quota consumed.
	usageHighThreshold     = 75
	usageCriticalThreshold = 90
)

// renderUsage prints the character-quota snapshot with a bounded-width
// progress bar and escalating warnings near exhaustion.
func renderUsage(out io.Writer, usage *translator.Usage) error {
	pct := usage.Percentage()

	fmt.Fprintln(out, "DeepL API Usage:")
	fmt.Fprintf(out, "  Characters used: %s\n", humanize.Comma(usage.CharacterCount))
	fmt.Fprintf(out, "  Character limit: %s\n", humanize.Comma(usage.CharacterLimit))
	fmt.Fprintf(out, "  Remaining: %s\n", humanize.Comma(usage.Remaining()))
	fmt.Fprintf(out, "  Usage: %.1f%%\n", pct)

	filled := int(usageBarWidth * pct / 100)
	if filled > usageBarWidth {
		filled = usageBarWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", usageBarWidth-filled)
	fmt.Fprintf(out, "  [%s]\n", bar)

	switch {
	case pct > usageCriticalThreshold:
		fmt.Fprintln(out, "\n  Warning: API quota nearly exhausted!")
	case pct > usageHighThreshold:
		fmt.Fprintln(out, "\n  Warning: API quota usage is high")
	}
	return nil
}
