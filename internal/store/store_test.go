package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"blocksched/internal/schedule"
	logx "blocksched/pkg/logx"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedules.json")
	s, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func sample(name string) schedule.Schedule {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return schedule.Schedule{
		Name:      name,
		Start:     22 * 60,
		End:       7 * 60,
		Devices:   []string{},
		Days:      schedule.EveryDay,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Load = %d schedules, want 0", len(got))
	}
}

func TestLoadCorruptFileIsEmpty(t *testing.T) {
	t.Parallel()
	s, path := newTestStore(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("corrupt file should load as empty, got %d entries", len(got))
	}
}

func TestSaveLoadRoundTripIsByteStable(t *testing.T) {
	t.Parallel()
	s, path := newTestStore(t)
	if err := s.Save([]schedule.Schedule{sample("Night_Block"), sample("Second")}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if err := s.Save(loaded); err != nil {
		t.Fatalf("re-Save error: %v", err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("save(load()) changed bytes:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	t.Parallel()
	s, path := newTestStore(t)
	if err := s.Save([]schedule.Schedule{sample("A")}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestAddRejectsDuplicateAndKeepsStore(t *testing.T) {
	t.Parallel()
	s, path := newTestStore(t)
	if err := s.Add(sample("Night_Block")); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	before, _ := os.ReadFile(path)

	err := s.Add(sample("Night_Block"))
	if !errors.Is(err, schedule.ErrDuplicateName) {
		t.Fatalf("Add duplicate = %v, want ErrDuplicateName", err)
	}
	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Fatal("failed Add must leave the store unchanged")
	}
}

func TestFindRemoveUpdate(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)
	if err := s.Add(sample("One")); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(sample("Two")); err != nil {
		t.Fatal(err)
	}

	got, err := s.FindByName("Two")
	if err != nil {
		t.Fatalf("FindByName error: %v", err)
	}
	if got.Name != "Two" {
		t.Fatalf("FindByName = %q, want Two", got.Name)
	}
	if _, err := s.FindByName("Missing"); !errors.Is(err, schedule.ErrNotFound) {
		t.Fatalf("FindByName missing = %v, want ErrNotFound", err)
	}

	updated, err := s.Update("One", func(sc *schedule.Schedule) { sc.Enabled = false })
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Enabled {
		t.Fatal("Update did not apply mutation")
	}
	if !updated.UpdatedAt.After(sample("One").UpdatedAt) {
		t.Fatal("Update did not bump UpdatedAt")
	}

	if err := s.Remove("One"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if err := s.Remove("One"); !errors.Is(err, schedule.ErrNotFound) {
		t.Fatalf("second Remove = %v, want ErrNotFound", err)
	}

	all, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Name != "Two" {
		t.Fatalf("unexpected remaining schedules: %+v", all)
	}
}

func TestLoadPreservesInsertionOrder(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)
	for _, name := range []string{"C", "A", "B"} {
		if err := s.Add(sample(name)); err != nil {
			t.Fatal(err)
		}
	}
	all, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"C", "A", "B"}
	for i, sc := range all {
		if sc.Name != want[i] {
			t.Fatalf("order[%d] = %q, want %q", i, sc.Name, want[i])
		}
	}
}
