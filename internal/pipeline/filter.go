package pipeline

import (
	"path/filepath"
	"slices"
	"strings"

	"phantomsync/internal/logger"
	"phantomsync/internal/model"

	"go.uber.org/zap"
)

// Matcher decides which paths under a watch root are ignored. Only the path
// elements below root are matched, so a root that itself lives in a
// directory such as "build.tmp" still receives events.
type Matcher struct {
	root     string
	patterns []string
}

func NewMatcher(root string, patterns []string) *Matcher {
	return &Matcher{
		root:     filepath.Clean(root),
		patterns: slices.Clone(patterns),
	}
}

// Match reports whether any element of path below the root matches an
// ignore pattern. Paths outside the root are judged by their base name.
func (m *Matcher) Match(path string) bool {
	for _, elem := range m.elements(path) {
		if slices.ContainsFunc(m.patterns, func(pattern string) bool {
			matched, err := filepath.Match(pattern, elem)
			return err == nil && matched
		}) {
			return true
		}
	}

	return false
}

func (m *Matcher) elements(path string) []string {
	rel, err := filepath.Rel(m.root, filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return []string{filepath.Base(path)}
	}
	if rel == "." {
		return nil
	}

	return strings.Split(filepath.ToSlash(rel), "/")
}

// Filter forwards the events whose paths m does not ignore.
func Filter(inCh <-chan model.FileEvent, m *Matcher) <-chan model.FileEvent {
	outCh := make(chan model.FileEvent, cap(inCh))

	go func() {
		defer close(outCh)

		for event := range inCh {
			if m.Match(event.Path) {
				logger.Log.Debug("ignored",
					zap.String("id", event.ID),
					zap.String("path", event.Path))
				continue
			}
			outCh <- event
		}
	}()

	return outCh
}
