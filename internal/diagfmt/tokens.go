package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"scopetree/internal/source"
	"scopetree/internal/token"
)

// TokenOutput is the JSON shape of one token. Depth is the brace nesting
// before the token, which is where the scope builder would attach it.
type TokenOutput struct {
	Kind    string         `json:"kind"`
	Text    string         `json:"text,omitempty"`
	Span    source.Span    `json:"span"`
	Start   source.LineCol `json:"start"`
	End     source.LineCol `json:"end"`
	Depth   int            `json:"depth"`
	Leading []string       `json:"leading,omitempty"`
}

// braceDepth tracks '{' nesting over a token stream. Unbalanced '}' never
// drives the depth negative.
type braceDepth int

func (d *braceDepth) step(k token.Kind) int {
	switch k {
	case token.LBrace:
		cur := int(*d)
		*d++
		return cur
	case token.RBrace:
		if *d > 0 {
			*d--
		}
	}
	return int(*d)
}

func triviaKinds(tok token.Token) []string {
	if len(tok.Leading) == 0 {
		return nil
	}
	out := make([]string, len(tok.Leading))
	for i, tr := range tok.Leading {
		out[i] = tr.Kind.String()
	}
	return out
}

// FormatTokensPretty печатает токены по одному на строку с отступом по
// глубине фигурных скобок
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	var depth braceDepth
	for i, tok := range tokens {
		d := depth.step(tok.Kind)
		start, end := fs.Resolve(tok.Span)

		line := fmt.Sprintf("%3d: %s%-15s", i+1, strings.Repeat("  ", d), tok.Kind)
		if tok.Text != "" {
			line += fmt.Sprintf(" %q", tok.Text)
		}
		line += fmt.Sprintf(" at %s-%s", start, end)
		if kinds := triviaKinds(tok); kinds != nil {
			line += " (leading: " + strings.Join(kinds, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены массивом JSON
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	out := make([]TokenOutput, 0, len(tokens))
	var depth braceDepth
	for _, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		out = append(out, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Start:   start,
			End:     end,
			Depth:   depth.step(tok.Kind),
			Leading: triviaKinds(tok),
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
