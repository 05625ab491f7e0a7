// Package refmat loads the static reference materials (framework and
// depth-of-knowledge documents) that ground the generation prompts.
// Missing or unreadable sources never fail a generation request; they
// degrade to empty context with a logged warning.
package refmat

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Standard file names inside the reference materials directory.
const (
	frameworkFile = "3D Framework.pdf"
	dokFile       = "DOK Levels.pdf"
)

// Bundle holds the named reference texts consumed verbatim by the
// prompt builder. Empty fields mean the source was missing or unreadable.
type Bundle struct {
	// Framework is the three-dimensional science framework text.
	Framework string

	// DOK is the depth-of-knowledge levels text.
	DOK string
}

// Loader reads reference materials from a directory.
type Loader struct {
	dir string
	log *zap.Logger
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string, log *zap.Logger) *Loader {
	return &Loader{dir: dir, log: log}
}

// Load returns the reference bundle for a grade. A grade-specific
// subdirectory (e.g. "Grade 6/DOK Levels.pdf") takes precedence over
// the shared top-level file. Never fails: each missing slot is an
// empty string plus a warning.
func (l *Loader) Load(grade, unit string) Bundle {
	return Bundle{
		Framework: l.extract(grade, frameworkFile),
		DOK:       l.extract(grade, dokFile),
	}
}

func (l *Loader) extract(grade, name string) string {
	path := filepath.Join(l.dir, grade, name)
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(l.dir, name)
	}

	text, pages, err := ExtractText(path)
	if err != nil {
		l.log.Warn("reference source unavailable, proceeding without it",
			zap.String("source", path),
			zap.Error(err))
		return ""
	}

	l.log.Debug("loaded reference source",
		zap.String("source", path),
		zap.Int("pages", pages),
		zap.Int("chars", len(text)))
	return text
}
