package diagfmt

import (
	"path/filepath"
	"strings"

	"scopetree/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int8
	PathMode    PathMode
	Width       uint8 // максимальная ширина строки, 0 - не ограничено
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// TreeOpts configures the scope tree rendering.
type TreeOpts struct {
	Color bool
	// Addresses prints the arena id of every scope.
	Addresses bool
	PathMode  PathMode
	// Names lists the names each scope introduces.
	Names bool
}

// autoPathLimit: длиннее этого auto-режим показывает только имя файла
const autoPathLimit = 40

func formatPath(f *source.File, base string, mode PathMode) string {
	p := f.Path
	switch mode {
	case PathModeBasename:
		return filepath.Base(p)
	case PathModeAbsolute:
		if !filepath.IsAbs(p) && f.Flags&source.FileVirtual == 0 {
			if abs, err := filepath.Abs(p); err == nil {
				p = abs
			}
		}
		return filepath.ToSlash(p)
	case PathModeRelative:
		return relativePath(p, base)
	default:
		rel := relativePath(p, base)
		if len(rel) > autoPathLimit {
			return filepath.Base(rel)
		}
		return rel
	}
}

func relativePath(p, base string) string {
	if base != "" && filepath.IsAbs(p) {
		if rel, err := filepath.Rel(base, p); err == nil && !strings.HasPrefix(rel, "..") {
			p = rel
		}
	}
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}
