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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/deepl-go/deepl-cli/internal/apperr"
	"github.com/deepl-go/deepl-cli/internal/clipboard"
	"github.com/deepl-go/deepl-cli/internal/config"
	"github.com/deepl-go/deepl-cli/internal/language"
	"github.com/deepl-go/deepl-cli/internal/router"
	"github.com/deepl-go/deepl-cli/internal/translator"
)

var version = "1.0.0"

// Exit codes. Interruption is distinguished from every other handled
// failure; stack traces never reach the user.
const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

var (
	useClipboard  bool
	useStdin      bool
	sourceLang    string
	outputFile    string
	listLanguages bool
	showUsage     bool
	verbose       bool
	apiKeyFlag    string
	timeoutSecs   int

	// largeInputThreshold triggers a progress notice on stderr.
	largeInputThreshold = 10000
)

var rootCmd = &cobra.Command{
	Use:   "deepl-cli [target-lang] [text|file|-]",
	Short: "Command-line client for the DeepL translation API",
	Long: `Translate text from the command line using the DeepL API.

Input is taken from, in order of precedence: the clipboard (--clipboard),
stdin (--stdin, a "-" argument, or a pipe), a file path, or the literal
argument text. Output goes to exactly one of the clipboard, a file (-o),
or stdout.

The API key is resolved from --api-key, the DEEPL_API_KEY environment
variable, or a key file (see --help output of the error message when none
is found).`,
	Example: `  # Direct text translation
  deepl-cli JA "Hello, world!"

  # File translation
  deepl-cli JA input.txt

  # Standard input
  echo "Hello, world!" | deepl-cli JA
  deepl-cli JA --stdin < input.txt
  deepl-cli JA -

  # Clipboard round-trip
  deepl-cli EN-US --clipboard

  # Output to file
  deepl-cli JA input.txt -o output.txt

  # Diagnostics
  deepl-cli --list-languages
  deepl-cli --usage`,
	Version:       version,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&useClipboard, "clipboard", "c", false, "Use clipboard for input and output")
	rootCmd.Flags().BoolVar(&useStdin, "stdin", false, "Read input from stdin")
	rootCmd.Flags().StringVarP(&sourceLang, "source-lang", "s", "", "Source language code (auto-detect if not specified)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().BoolVar(&listLanguages, "list-languages", false, "List all supported language codes")
	rootCmd.Flags().BoolVar(&showUsage, "usage", false, "Show API usage information")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "DeepL API key (overrides environment and key files)")
	rootCmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "Request timeout in seconds (default from settings file, else 30)")
}

// Execute runs the root command and owns the process exit code. Every
// handled failure is written to stderr here and nowhere else.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		os.Exit(exitOK)
	}
	stop()

	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		fmt.Fprintf(os.Stderr, "\nInterrupted by user\n")
		os.Exit(exitInterrupted)
	}

	switch apperr.KindOf(err) {
	case apperr.KindUnexpected:
		fmt.Fprintf(os.Stderr, "Error: An unexpected error occurred: %v\n", err)
		fmt.Fprintf(os.Stderr, "Please report this issue at: https://github.com/deepl-go/deepl-cli/issues\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitError)
}

// run is the single linear pass: modes, validation, credential, input,
// remote call, output.
func run(ctx context.Context, args []string) error {
	langs := language.New()

	if listLanguages {
		return renderLanguages(os.Stdout, langs)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return apperr.Wrap(apperr.KindConfig, err, "Cannot determine home directory: %v", err)
	}
	settings := config.LoadSettings(home, warnf)

	if showUsage {
		client, err := newClient(settings)
		if err != nil {
			return err
		}
		usage, err := client.Usage(ctx)
		if err != nil {
			return err
		}
		return renderUsage(os.Stdout, usage)
	}

	var targetArg, inputArg string
	if len(args) > 0 {
		targetArg = args[0]
	}
	if len(args) > 1 {
		inputArg = args[1]
	}
	if targetArg == "" {
		targetArg = settings.TargetLang
	}

	target, err := langs.ValidateTarget(targetArg)
	if err != nil {
		return err
	}
	if sourceLang == "" {
		sourceLang = settings.SourceLang
	}
	source, err := langs.ValidateSource(sourceLang)
	if err != nil {
		return err
	}

	inReq := router.InputRequest{
		Arg:          inputArg,
		UseClipboard: useClipboard,
		UseStdin:     useStdin,
	}
	if err := router.ValidateRequest(inReq); err != nil {
		return err
	}

	client, err := newClient(settings)
	if err != nil {
		return err
	}
	if err := client.Verify(ctx); err != nil {
		return err
	}
	debugf("API key verified\n")

	clip := clipboard.System{}
	stdinIsTerminal := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	inputText, err := router.ReadInput(inReq, router.OSCapabilities(os.Stdin, stdinIsTerminal, clip, promptf))
	if err != nil {
		return err
	}
	debugf("Read %d characters of input\n", len(inputText))

	if len(inputText) > largeInputThreshold {
		fmt.Fprintf(os.Stderr, "Translating %d characters to %s...\n", len(inputText), target)
	}

	result, err := client.Translate(ctx, translator.TranslateRequest{
		Text:       inputText,
		SourceLang: source,
		TargetLang: target,
	})
	if err != nil {
		return err
	}
	if result.DetectedSourceLang != "" {
		debugf("Translation completed: %s → %s\n", result.DetectedSourceLang, target)
	}

	outReq := router.OutputRequest{Path: outputFile, UseClipboard: useClipboard}
	return router.WriteOutput(result.Text, outReq, router.OSOutputCapabilities(os.Stdout, clip, notifyf))
}

// newClient resolves the credential and builds the API client. Callers on
// the translation path follow up with Verify so a rejected key fails before
// any translation is attempted.
func newClient(settings config.Settings) (*translator.Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, err, "Cannot determine home directory: %v", err)
	}

	apiKey, err := config.ResolveAPIKey(apiKeyFlag, config.KeyFilePaths(home), config.Capabilities{
		Getenv:   os.Getenv,
		ReadFile: os.ReadFile,
		Warnf:    warnf,
	})
	if err != nil {
		return nil, err
	}

	timeout := settings.TimeoutSeconds
	if timeoutSecs > 0 {
		timeout = timeoutSecs
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeoutSeconds
	}

	client := translator.NewClient(apiKey,
		translator.WithEndpoint(settings.APIEndpoint),
		translator.WithTimeout(time.Duration(timeout)*time.Second),
	)
	return client, nil
}

// Stderr helpers. The payload stream (stdout) carries only translated text
// or the requested listing; everything human goes here.

func debugf(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

func promptf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func notifyf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
