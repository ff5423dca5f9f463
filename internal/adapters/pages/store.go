package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	Home = "home"
	Dice = "dice"
)

// EmbeddedStore renders pages from templates compiled into the binary.
type EmbeddedStore struct {
	once sync.Once
	tmpl *template.Template
	err  error
}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{}
}

func (s *EmbeddedStore) init() {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		s.err = fmt.Errorf("parse embedded templates: %w", err)
		return
	}
	s.tmpl = tmpl
}

func (s *EmbeddedStore) Render(_ context.Context, w io.Writer, page string, data any) error {
	s.once.Do(s.init)
	if s.err != nil {
		return s.err
	}
	t := s.tmpl.Lookup(page + ".html")
	if t == nil {
		return fmt.Errorf("page %q not found", page)
	}
	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("render page %s: %w", page, err)
	}
	return nil
}
