package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/results-parser/internal/common"
	"github.com/joseph-ayodele/results-parser/internal/extract"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.pdf"), "%PDF")
	writeFile(t, filepath.Join(root, "a.JSON"), "{}")
	writeFile(t, filepath.Join(root, "notes.txt"), "x")
	writeFile(t, filepath.Join(root, ".cache", "c.json"), "{}")
	writeFile(t, filepath.Join(root, "sub", "d.json"), "{}")

	got, err := Discover(root, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(root, "a.JSON"), filepath.Join(root, "b.pdf"), filepath.Join(root, "sub", "d.json")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover mismatch (-want +got):\n%s", diff)
	}

	all, _ := Discover(root, false)
	if len(all) != 4 {
		t.Errorf("with hidden = %v", all)
	}
	if _, err := Discover(" ", true); err == nil {
		t.Error("blank root should fail")
	}
}

func TestOpenSource(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "pages.json")
	writeFile(t, dump, `{"pages": [{"number": 1, "text": "x"}]}`)

	src, err := OpenSource(dump, extract.CommandConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*extract.DumpSource); !ok {
		t.Errorf("json source = %T", src)
	}

	if _, err := OpenSource(filepath.Join(dir, "in.pdf"), extract.CommandConfig{}, nil); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("pdf without command err = %v", err)
	}
	src, err = OpenSource(filepath.Join(dir, "in.pdf"), extract.CommandConfig{Command: "pages"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*extract.CommandSource); !ok {
		t.Errorf("pdf source = %T", src)
	}
	if _, err := OpenSource(filepath.Join(dir, "x.txt"), extract.CommandConfig{}, nil); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("txt err = %v", err)
	}
}

func TestHashFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.json")
	writeFile(t, p, "abc")
	got, err := HashFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("HashFile = %s", got)
	}
}

func next(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return ""
	}
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "old.json")
	writeFile(t, existing, "{}")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true, Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if got := next(t, events); got != existing {
		t.Errorf("initial event = %s", got)
	}

	fresh := filepath.Join(root, "new.json")
	writeFile(t, fresh, `{"pages": []}`)
	writeFile(t, filepath.Join(root, "ignored.txt"), "x")
	if got := next(t, events); got != fresh {
		t.Errorf("event = %s, want %s", got, fresh)
	}

	cancel()
	for range events {
	}
}

func TestStartWatcherNoRoots(t *testing.T) {
	if _, _, err := StartWatcher(context.Background(), WatchConfig{}); err == nil {
		t.Error("expected error")
	}
}
