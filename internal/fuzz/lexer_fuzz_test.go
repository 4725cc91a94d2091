package fuzztests

import (
	"testing"

	"scopetree/internal/diag"
	"scopetree/internal/lexer"
	"scopetree/internal/source"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.swift", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		var prevEnd uint32
		for {
			tok := lx.Next()
			if tok.Kind.IsEOF() {
				break
			}
			if tok.Span.Start < prevEnd || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %v at %v overlaps previous end %d", tok.Kind, tok.Span, prevEnd)
			}
			prevEnd = tok.Span.End
		}
	})
}
