// Package router decides where input text comes from and where translated
// text goes. The precedence rules here are the user-visible contract;
// everything ambient (files, stdin, clipboard) is injected so the rules can
// be tested in isolation.
package router

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/deepl-go/deepl-cli/internal/apperr"
	"github.com/deepl-go/deepl-cli/internal/clipboard"
)

// stdinMarker is the conventional "read from stdin" argument.
const stdinMarker = "-"

// InputRequest describes what the command line asked for.
type InputRequest struct {
	// Arg is the positional input token: literal text, a file path, or "-".
	Arg string
	// UseClipboard is the clipboard-mode toggle (applies to output too).
	UseClipboard bool
	// UseStdin is the explicit read-from-stdin flag.
	UseStdin bool
}

// Capabilities are the ambient facilities input resolution reads from.
type Capabilities struct {
	Stdin           io.Reader
	StdinIsTerminal bool
	Clipboard       clipboard.Clipboard
	Stat            func(string) (fs.FileInfo, error)
	ReadFile        func(string) ([]byte, error)
	// Promptf writes an interactive hint to the user (stderr). May be nil.
	Promptf func(format string, args ...any)
}

func (c Capabilities) promptf(format string, args ...any) {
	if c.Promptf != nil {
		c.Promptf(format, args...)
	}
}

// OSCapabilities wires the real process environment. stdinIsTerminal is
// probed by the caller since terminal detection needs the concrete *os.File.
func OSCapabilities(stdin io.Reader, stdinIsTerminal bool, clip clipboard.Clipboard, promptf func(string, ...any)) Capabilities {
	return Capabilities{
		Stdin:           stdin,
		StdinIsTerminal: stdinIsTerminal,
		Clipboard:       clip,
		Stat:            os.Stat,
		ReadFile:        os.ReadFile,
		Promptf:         promptf,
	}
}

// ValidateRequest rejects flag combinations with no defined precedence.
func ValidateRequest(req InputRequest) error {
	if req.UseClipboard && (req.UseStdin || req.Arg == stdinMarker) {
		return apperr.New(apperr.KindValidation,
			"Cannot use --clipboard with --stdin or '-' simultaneously")
	}
	return nil
}

// ReadInput resolves the input source, first applicable wins:
//
//  1. clipboard, when the clipboard toggle is set
//  2. stdin, on explicit intent (--stdin or "-") or when stdin is a
//     non-empty pipe/redirect
//  3. the argument as a file path, when it names an existing regular file
//  4. the argument as literal text
//
// Anything else is an input error listing the accepted methods.
func ReadInput(req InputRequest, caps Capabilities) (string, error) {
	if req.UseClipboard {
		return readClipboard(caps)
	}

	if req.UseStdin || req.Arg == stdinMarker {
		if caps.StdinIsTerminal {
			caps.promptf("Reading from stdin. Type your text and press Ctrl+D (Unix) or Ctrl+Z (Windows) to finish:\n")
		}
		data, err := io.ReadAll(caps.Stdin)
		if err != nil {
			return "", apperr.Wrap(apperr.KindInput, err, "Failed to read stdin: %v", err)
		}
		text := string(data)
		if strings.TrimSpace(text) == "" {
			return "", apperr.New(apperr.KindInput, "No input received from stdin")
		}
		return text, nil
	}

	// Piped or redirected stdin wins over the argument, but only when it
	// actually carries content; an empty pipe falls through.
	if !caps.StdinIsTerminal {
		data, err := io.ReadAll(caps.Stdin)
		if err != nil {
			return "", apperr.Wrap(apperr.KindInput, err, "Failed to read stdin: %v", err)
		}
		if text := string(data); strings.TrimSpace(text) != "" {
			return text, nil
		}
	}

	if req.Arg != "" {
		info, err := caps.Stat(req.Arg)
		switch {
		case err == nil && info.Mode().IsRegular():
			return readTextFile(req.Arg, caps)
		case err == nil && info.IsDir():
			return "", apperr.New(apperr.KindInput, "Input path is a directory, not a file: %s", req.Arg)
		case looksLikePath(req.Arg):
			return "", apperr.New(apperr.KindInput, "Input file does not exist: %s", req.Arg)
		default:
			return req.Arg, nil
		}
	}

	return "", apperr.New(apperr.KindInput,
		"No input provided. Use one of:\n"+
			"  - Provide text directly: deepl-cli JA \"Hello, world!\"\n"+
			"  - Provide an input file path: deepl-cli JA input.txt\n"+
			"  - Pipe stdin: echo 'text' | deepl-cli JA\n"+
			"  - Read stdin explicitly: deepl-cli JA --stdin\n"+
			"  - Read stdin with a dash: deepl-cli JA -\n"+
			"  - Use --clipboard for clipboard input\n"+
			"  - Use --help for more information")
}

// looksLikePath distinguishes a mistyped file path from literal text to
// translate. An argument with a path separator, or a single token with a
// short extension, was meant as a file; everything else is prose.
func looksLikePath(arg string) bool {
	if strings.ContainsAny(arg, "/\\") {
		return true
	}
	if strings.ContainsAny(arg, " \t\n") {
		return false
	}
	ext := filepath.Ext(arg)
	return len(ext) >= 2 && len(ext) <= 6
}

func readClipboard(caps Capabilities) (string, error) {
	if caps.Clipboard == nil || !caps.Clipboard.Available() {
		return "", apperr.New(apperr.KindInput,
			"Clipboard support not available on this platform")
	}
	text, err := caps.Clipboard.Read()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", apperr.New(apperr.KindInput,
			"Clipboard is empty. Please copy some text to translate and try again.")
	}
	return text, nil
}

func readTextFile(path string, caps Capabilities) (string, error) {
	data, err := caps.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return "", apperr.Wrap(apperr.KindInput, err, "Permission denied reading file: %s", path)
		}
		return "", apperr.Wrap(apperr.KindInput, err, "Failed to read file %s: %v", path, err)
	}
	if !utf8.Valid(data) {
		return "", apperr.New(apperr.KindInput,
			"Unable to decode file as UTF-8: %s\nPlease ensure the file is saved with UTF-8 encoding", path)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", apperr.New(apperr.KindInput, "Input file is empty: %s", path)
	}
	return text, nil
}

// OutputRequest describes the requested output sink.
type OutputRequest struct {
	// Path is the -o file destination; empty means stdout.
	Path string
	// UseClipboard routes output to the clipboard instead.
	UseClipboard bool
}

// OutputCapabilities are the ambient facilities output routing writes to.
type OutputCapabilities struct {
	Stdout    io.Writer
	Clipboard clipboard.Clipboard
	MkdirAll  func(string, os.FileMode) error
	WriteFile func(string, []byte, os.FileMode) error
	// Notifyf carries human confirmations (stderr), kept off the payload
	// stream. May be nil.
	Notifyf func(format string, args ...any)
}

func (c OutputCapabilities) notifyf(format string, args ...any) {
	if c.Notifyf != nil {
		c.Notifyf(format, args...)
	}
}

// OSOutputCapabilities wires the real process environment.
func OSOutputCapabilities(stdout io.Writer, clip clipboard.Clipboard, notifyf func(string, ...any)) OutputCapabilities {
	return OutputCapabilities{
		Stdout:    stdout,
		Clipboard: clip,
		MkdirAll:  os.MkdirAll,
		WriteFile: os.WriteFile,
		Notifyf:   notifyf,
	}
}

// WriteOutput routes the translated text to exactly one sink: clipboard,
// then the named file, then stdout. Confirmations go to the notify stream,
// never stdout, so piped output stays clean.
func WriteOutput(text string, req OutputRequest, caps OutputCapabilities) error {
	if req.UseClipboard {
		if caps.Clipboard == nil || !caps.Clipboard.Available() {
			return apperr.New(apperr.KindOutput,
				"Clipboard support not available on this platform")
		}
		if err := caps.Clipboard.Write(text); err != nil {
			return err
		}
		caps.notifyf("✓ Translation copied to clipboard!\n")
		return nil
	}

	if req.Path != "" {
		if dir := filepath.Dir(req.Path); dir != "." {
			if err := caps.MkdirAll(dir, 0o755); err != nil {
				return apperr.Wrap(apperr.KindOutput, err, "Failed to create output directory for %s: %v", req.Path, err)
			}
		}
		if err := caps.WriteFile(req.Path, []byte(text), 0o644); err != nil {
			if os.IsPermission(err) {
				return apperr.Wrap(apperr.KindOutput, err, "Permission denied writing file: %s", req.Path)
			}
			return apperr.Wrap(apperr.KindOutput, err, "Failed to write file %s: %v", req.Path, err)
		}
		caps.notifyf("✓ Translation saved to: %s\n", req.Path)
		return nil
	}

	if _, err := io.WriteString(caps.Stdout, text); err != nil {
		return apperr.Wrap(apperr.KindOutput, err, "Failed to write output: %v", err)
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		io.WriteString(caps.Stdout, "\n")
	}
	return nil
}
