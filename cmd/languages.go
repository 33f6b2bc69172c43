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
	"text/tabwriter"

	"github.com/deepl-go/deepl-cli/internal/language"
)

// renderLanguages prints the supported-code listing. Requires no
// authenticated session, so it works with no credential configured.
func renderLanguages(out io.Writer, langs *language.Set) error {
	fmt.Fprintln(out, "Supported language codes:")

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	codes := langs.All()
	for _, code := range codes {
		name := langs.Name(code)
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "  %s\t%s\n", code, name)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal: %d languages supported\n", len(codes))
	fmt.Fprintln(out, "\nUsage: deepl-cli <TARGET_LANG> [text or file]")
	fmt.Fprintln(out, "       deepl-cli <TARGET_LANG> --stdin")
	fmt.Fprintln(out, "       deepl-cli <TARGET_LANG> -")
	return nil
}
