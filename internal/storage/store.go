// Package storage keeps a library of named block diagrams on disk. Only
// diagram descriptions are stored; simulation results are never persisted.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/blocksim/internal/dynamo"
	"github.com/san-kum/blocksim/internal/graph"
)

const (
	metaFile    = "metadata.json"
	diagramFile = "diagram.yaml"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type DiagramMetadata struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Blocks    int       `json:"blocks"`
	Links     int       `json:"links"`
	Cyclic    bool      `json:"cyclic"`
	Warnings  []string  `json:"warnings,omitempty"`
}

// Save writes g under a fresh id and returns its metadata. cyclic is
// recorded as given so the store does not depend on the loop classifier.
func (s *Store) Save(g *graph.Graph, cyclic bool) (*DiagramMetadata, error) {
	id := uuid.NewString()
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	meta := &DiagramMetadata{
		ID:        id,
		Name:      g.Name,
		Timestamp: time.Now(),
		Blocks:    len(g.Blocks),
		Links:     len(g.Links),
		Cyclic:    cyclic,
	}
	for _, w := range g.Validate() {
		meta.Warnings = append(meta.Warnings, w.Error())
	}

	if err := graph.Save(filepath.Join(dir, diagramFile), g); err != nil {
		return nil, err
	}

	f, err := os.Create(filepath.Join(dir, metaFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// List returns stored diagrams, newest first. Entries with unreadable
// metadata are skipped.
func (s *Store) List() ([]DiagramMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []DiagramMetadata{}, nil
		}
		return nil, err
	}

	out := make([]DiagramMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Metadata(entry.Name())
		if err != nil {
			continue
		}
		out = append(out, *meta)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *Store) Metadata(id string) (*DiagramMetadata, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metaFile))
	if err != nil {
		return nil, notFound(id, err)
	}

	var meta DiagramMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) Load(id string) (*graph.Graph, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	g, err := graph.Load(filepath.Join(s.baseDir, id, diagramFile))
	if err != nil {
		return nil, notFound(id, err)
	}
	meta, err := s.Metadata(id)
	if err == nil && meta.Name != "" {
		g.Name = meta.Name
	}
	return g, nil
}

// Find resolves a stored diagram by id or, failing that, by name. The
// newest diagram wins when several share a name.
func (s *Store) Find(ref string) (*graph.Graph, error) {
	if uuid.Validate(ref) == nil {
		return s.Load(ref)
	}
	list, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, meta := range list {
		if meta.Name == ref {
			return s.Load(meta.ID)
		}
	}
	return nil, fmt.Errorf("%w: %s", dynamo.ErrDiagramNotFound, ref)
}

func (s *Store) Delete(id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	dir := filepath.Join(s.baseDir, id)
	if _, err := os.Stat(dir); err != nil {
		return notFound(id, err)
	}
	return os.RemoveAll(dir)
}

func checkID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("%w: %q is not a diagram id", dynamo.ErrDiagramNotFound, id)
	}
	return nil
}

func notFound(id string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", dynamo.ErrDiagramNotFound, id)
	}
	return err
}
