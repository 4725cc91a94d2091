package driver

import (
	"scopetree/internal/diag"
	"scopetree/internal/lexer"
	"scopetree/internal/source"
	"scopetree/internal/token"
)

// TokenizeResult is the token stream of one file. Tokens end with EOF.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	// MaxDepth is the deepest '{' nesting seen; a rough bound on how deep
	// the scope tree of the file can get.
	MaxDepth int
}

// Tokenize lexes path without parsing it.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	res := &TokenizeResult{FileSet: fs, File: fs.Get(id), Bag: newBag(maxDiagnostics)}
	lx := lexer.New(res.File, lexer.Options{Reporter: diag.BagReporter{Bag: res.Bag}})

	depth := 0
	for {
		tok := lx.Next()
		res.Tokens = append(res.Tokens, tok)
		switch tok.Kind {
		case token.LBrace:
			depth++
			res.MaxDepth = max(res.MaxDepth, depth)
		case token.RBrace:
			depth = max(depth-1, 0)
		case token.EOF:
			return res, nil
		}
	}
}
