// Package convert turns the intermediate markdown into the final document
// format, either through a pandoc subprocess (EPUB, standalone HTML with
// table of contents) or a built-in goldmark pass for HTML without a
// pandoc install.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
)

// Kind selects the pandoc output format.
type Kind string

const (
	KindEPUB Kind = "epub3"
	KindHTML Kind = "html5"
)

// inputFormat matches what the renderer emits: markdown with {#...}
// heading attributes and two-column simple tables.
const inputFormat = "markdown+header_attributes+simple_tables"

// Error reports a failed conversion. IntermediatePath points at the
// retained markdown so the input can be inspected instead of being lost
// with the failure.
type Error struct {
	Kind             Kind
	IntermediatePath string
	Stderr           string
	Err              error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("pandoc %s conversion failed, intermediate kept at %s: %v",
		e.Kind, e.IntermediatePath, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// WithPandoc converts the markdown document at markdownPath into outPath.
// Options are fixed: standalone document with a table of contents. On
// failure the markdown file is left in place and its path is carried in
// the returned *Error.
func WithPandoc(ctx context.Context, markdownPath string, kind Kind, outPath string) error {
	args := []string{
		"--from", inputFormat,
		"--to", string(kind),
		"--standalone",
		"--toc",
		"--output", outPath,
		markdownPath,
	}

	cmd := exec.CommandContext(ctx, "pandoc", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &Error{
			Kind:             kind,
			IntermediatePath: markdownPath,
			Stderr:           strings.TrimSpace(stderr.String()),
			Err:              err,
		}
	}
	return nil
}

// ToHTML converts markdown to an HTML fragment without external tooling.
// Heading attributes are enabled so the {#...} anchors survive into ids.
func ToHTML(w io.Writer, markdown []byte) error {
	md := goldmark.New(goldmark.WithParserOptions(parser.WithAttribute()))
	if err := md.Convert(markdown, w); err != nil {
		return fmt.Errorf("convert markdown to html: %w", err)
	}
	return nil
}
