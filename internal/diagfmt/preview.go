package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"scopetree/internal/diag"
	"scopetree/internal/source"
)

// fixEditPreview holds the lines touched by one edit before and after it
// is applied.
type fixEditPreview struct {
	before []string
	after  []string
}

var errNoPreview = errors.New("edit outside of file")

// buildFixEditPreview cuts out the whole lines covered by edit.Span and
// applies the edit to that block only.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	if edit.Span.End < edit.Span.Start || edit.Span.End > file.Len() {
		return fixEditPreview{}, errNoPreview
	}

	first, last := fs.Resolve(edit.Span)
	blockStart, _, ok := file.LineBounds(first.Line)
	if !ok {
		return fixEditPreview{}, errNoPreview
	}
	_, blockEnd, ok := file.LineBounds(max(last.Line, first.Line))
	if !ok {
		return fixEditPreview{}, errNoPreview
	}

	block := string(file.Content[blockStart:blockEnd])
	head := block[:edit.Span.Start-blockStart]
	tail := block[edit.Span.End-blockStart:]

	return fixEditPreview{
		before: previewLines(block),
		after:  previewLines(head + edit.NewText + tail),
	}, nil
}

// previewLines: пустой блок даёт одну пустую строку, чтобы вставка в
// пустую строку была видна в превью
func previewLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
