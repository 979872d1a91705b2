package langserver

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dhamidi/mf2"
	"github.com/dhamidi/mf2/datamodel"
)

// Document is one tracked .mf2 file: its latest content plus the result
// of parsing it.
type Document struct {
	Path     string
	Content  string
	Message  *datamodel.Message
	ParseErr error
}

// Store tracks the open and scanned documents of a workspace.
type Store struct {
	mu      sync.RWMutex
	rootDir string
	docs    map[string]*Document
}

func NewStore(rootDir string) *Store {
	return &Store{
		rootDir: rootDir,
		docs:    make(map[string]*Document),
	}
}

func (s *Store) RootDir() string {
	return s.rootDir
}

func (s *Store) ScanAll() error {
	return filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".mf2" {
			s.ScanFile(path)
		}
		return nil
	})
}

func (s *Store) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s.Update(path, string(content))
	return nil
}

// Update replaces the document's content and re-parses it.
func (s *Store) Update(path, content string) *Document {
	doc := &Document{
		Path:    path,
		Content: content,
	}
	msg, err := mf2.Parse(content)
	if err != nil {
		doc.ParseErr = err
	} else {
		doc.Message = msg
	}

	s.mu.Lock()
	s.docs[path] = doc
	s.mu.Unlock()
	return doc
}

func (s *Store) Get(path string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[path]
}

func (s *Store) Remove(path string) {
	s.mu.Lock()
	delete(s.docs, path)
	s.mu.Unlock()
}

// Functions returns the function names annotated anywhere in the tracked
// documents, sorted and deduplicated. Used for completion.
func (s *Store) Functions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for _, doc := range s.docs {
		if doc.Message == nil {
			continue
		}
		collectFunctions(doc.Message, seen)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectFunctions(msg *datamodel.Message, seen map[string]bool) {
	for _, d := range msg.Declarations {
		collectExpressionFunctions(d.Value, seen)
	}
	collectPatternFunctions(msg.Pattern, seen)
	for _, sel := range msg.Selectors {
		collectExpressionFunctions(sel, seen)
	}
	for _, v := range msg.Variants {
		collectPatternFunctions(v.Pattern, seen)
	}
}

func collectPatternFunctions(p datamodel.Pattern, seen map[string]bool) {
	for _, part := range p.Parts {
		if expr, ok := part.(*datamodel.Expression); ok {
			collectExpressionFunctions(*expr, seen)
		}
	}
}

func collectExpressionFunctions(e datamodel.Expression, seen map[string]bool) {
	if e.Operator != nil {
		seen[e.Operator.Function] = true
	}
}
