package fuzztests

import (
	"testing"
	"time"

	"scopetree/internal/ast"
	"scopetree/internal/diag"
	"scopetree/internal/parser"
	"scopetree/internal/source"
	"scopetree/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func parseInput(tb testing.TB, input []byte, opts parser.Options) (*source.FileSet, source.FileID, *ast.Builder, ast.FileID) {
	tb.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("fuzz.swift", input)

	bag := diag.NewBag(128)
	opts.Reporter = diag.BagReporter{Bag: bag}
	opts.MaxErrors = 128

	builder := ast.NewBuilder(ast.Hints{}, nil)
	res, err := parser.ParseFile(fs, fileID, builder, opts)
	if err != nil {
		tb.Fatalf("ParseFile: %v", err)
	}
	return fs, fileID, builder, res.File
}

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs, srcID, builder, fileID := parseInput(t, input, parser.Options{})
		if err := testkit.CheckSpanInvariants(builder, fileID, fs.Get(srcID)); err != nil {
			t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
// It uses a timeout to detect infinite loops that could be caused by
// malformed input or edge cases in error recovery.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// Add specific edge cases that stress error recovery
	f.Add([]byte("func f() { let x = 1\nlet y = 2; }"))     // mixed separators
	f.Add([]byte("func f() { x +\nlet z = 3 }"))            // dangling operator
	f.Add([]byte("{ let x = 1 }"))                          // bare block at top level
	f.Add([]byte("func f() { { { { } } } }"))               // deeply nested blocks
	f.Add([]byte("func f() { switch x { } }"))              // empty switch
	f.Add([]byte("func f() { guard let a = b }"))           // guard without else
	f.Add([]byte("#if A\n#if B\nfunc f() {}\n#endif"))      // unterminated #if
	f.Add([]byte("let c = { [a, b] in guard let a else }")) // broken closure

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			fileID := fs.AddVirtual("fuzz.swift", input)
			builder := ast.NewBuilder(ast.Hints{}, nil)
			_, _ = parser.ParseFile(fs, fileID, builder, parser.Options{
				Reporter:  diag.NopReporter{},
				MaxErrors: 128,
			})
		}()

		// Wait for completion or timeout
		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
