package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/blocksim/internal/dynamo"
	"github.com/san-kum/blocksim/internal/graph"
)

func sample(name string) *graph.Graph {
	return &graph.Graph{
		Name: name,
		Blocks: []graph.Block{
			{ID: "c", Kind: graph.KindConstant, Value: 1},
			{ID: "g", Kind: graph.KindGain, K: graph.Float(2)},
		},
		Links: []graph.Link{{From: "c", To: "g"}, {From: "g", To: graph.Sink}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta, err := st.Save(sample("double"), false)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if meta.ID == "" {
		t.Error("expected non-empty diagram id")
	}
	if meta.Blocks != 2 || meta.Links != 2 {
		t.Errorf("unexpected counts: %+v", meta)
	}

	g, err := st.Load(meta.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if g.Name != "double" {
		t.Errorf("expected name 'double', got '%s'", g.Name)
	}
	if len(g.Blocks) != 2 || g.Blocks[1].Gain() != 2 {
		t.Errorf("diagram not restored: %+v", g.Blocks)
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "lib"))

	list, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected 0 diagrams, got %d", len(list))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := st.Save(sample("a"), false); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := st.Save(sample("b"), true); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	list, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 diagrams, got %d", len(list))
	}
	if list[0].Name != "b" || !list[0].Cyclic {
		t.Errorf("expected newest first, got %+v", list[0])
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	meta, err := st.Save(sample("x"), false)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "diagram.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, meta.ID, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestStoreFindAndDelete(t *testing.T) {
	st := New(t.TempDir())
	meta, err := st.Save(sample("lookup"), false)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := st.Find("lookup"); err != nil {
		t.Errorf("find by name failed: %v", err)
	}
	if _, err := st.Find(meta.ID); err != nil {
		t.Errorf("find by id failed: %v", err)
	}

	if err := st.Delete(meta.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := st.Load(meta.ID); !errors.Is(err, dynamo.ErrDiagramNotFound) {
		t.Errorf("expected ErrDiagramNotFound, got %v", err)
	}
	if _, err := st.Find("lookup"); !errors.Is(err, dynamo.ErrDiagramNotFound) {
		t.Errorf("expected ErrDiagramNotFound, got %v", err)
	}
}

func TestStoreRejectsPaths(t *testing.T) {
	st := New(t.TempDir())
	for _, id := range []string{"../etc", "", "not-a-uuid"} {
		if _, err := st.Load(id); !errors.Is(err, dynamo.ErrDiagramNotFound) {
			t.Errorf("Load(%q): expected ErrDiagramNotFound, got %v", id, err)
		}
		if err := st.Delete(id); !errors.Is(err, dynamo.ErrDiagramNotFound) {
			t.Errorf("Delete(%q): expected ErrDiagramNotFound, got %v", id, err)
		}
	}
}
