package blueprint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultDrafterArgs asks drafter for a JSON rendered AST read from stdin.
var DefaultDrafterArgs = []string{"--type", "ast", "--format", "json"}

// DrafterParser parses API Blueprint text by running the drafter executable
// and decoding its AST output.
type DrafterParser struct {
	// Path is the drafter executable; "drafter" is looked up on PATH when empty.
	Path string
	// Args replaces DefaultDrafterArgs when set.
	Args []string
}

func (p DrafterParser) Parse(ctx context.Context, text []byte, opts ParseOptions) (*Description, error) {
	bin := strings.TrimSpace(p.Path)
	if bin == "" {
		bin = "drafter"
	}
	args := p.Args
	if len(args) == 0 {
		args = DefaultDrafterArgs
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = bytes.NewReader(text)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, &Error{Code: ParseError, Message: fmt.Sprintf("parse: drafter executable %q not found (install drafter or pass a rendered AST)", bin), Cause: err}
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, &Error{Code: ParseError, Message: fmt.Sprintf("parse: %s", msg), Cause: err}
	}

	return DocumentParser{}.Parse(ctx, stdout.Bytes(), opts)
}
