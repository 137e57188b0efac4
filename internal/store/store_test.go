package store

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"coursegrabber/internal/model"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(t.TempDir(), log.New(io.Discard, "", 0))
}

func testProject(name string, createdAt time.Time) *model.Project {
	lessonID := uuid.New()
	return &model.Project{
		ID:           uuid.New(),
		Name:         name,
		Description:  "a course",
		SaveLocation: "/downloads/" + name,
		Lessons: []model.Lesson{
			{
				ID:    lessonID,
				Title: "Intro",
				Order: 1,
				URLs: []model.LessonURL{
					{ID: uuid.New(), URL: "https://example.com/v1", PartNumber: 1, Status: model.StatusPending},
					{ID: uuid.New(), URL: "https://example.com/v2", PartNumber: 2, Status: model.StatusPending},
				},
				CreatedAt: createdAt,
				UpdatedAt: createdAt,
			},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	created := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	p := testProject("go-course", created)

	if err := s.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(p.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Errorf("loaded project differs from saved:\ngot  %+v\nwant %+v", got, p)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := newTestStore(t)

	p := testProject("course", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err := s.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	p.Name = "renamed"
	if err := s.Save(p); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := s.Load(p.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Name != "renamed" {
		t.Errorf("expected overwritten name 'renamed', got %q", got.Name)
	}

	// The temp file must never outlive a save.
	tmps, _ := filepath.Glob(filepath.Join(s.dir, "*.tmp"))
	if len(tmps) != 0 {
		t.Errorf("expected no temp files after save, found %v", tmps)
	}
}

func TestLoadNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	s := newTestStore(t)

	id := uuid.New()
	path := filepath.Join(s.dir, id.String()+".json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	_, err := s.Load(id)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestListOrderAndCorruptTolerance(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	oldest := testProject("oldest", base)
	middle := testProject("middle", base.Add(time.Hour))
	newest := testProject("newest", base.Add(2*time.Hour))

	for _, p := range []*model.Project{middle, newest, oldest} {
		if err := s.Save(p); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	// A corrupt record must be skipped, not fail the listing.
	corrupt := filepath.Join(s.dir, uuid.New().String()+".json")
	if err := os.WriteFile(corrupt, []byte("garbage"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	projects, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(projects) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(projects))
	}
	wantOrder := []string{"newest", "middle", "oldest"}
	for i, want := range wantOrder {
		if projects[i].Name != want {
			t.Errorf("position %d: expected %q, got %q", i, want, projects[i].Name)
		}
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	p := testProject("course", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err := s.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	existed, err := s.Delete(p.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !existed {
		t.Error("expected Delete to report the record existed")
	}

	if _, err := s.Load(p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	existed, err = s.Delete(p.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if existed {
		t.Error("expected second Delete to report the record missing")
	}
}

func TestCleanStaleTemp(t *testing.T) {
	s := newTestStore(t)

	stale := filepath.Join(s.dir, uuid.New().String()+".json.tmp")
	if err := os.WriteFile(stale, []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to write stale temp: %v", err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("failed to age stale temp: %v", err)
	}

	fresh := filepath.Join(s.dir, uuid.New().String()+".json.tmp")
	if err := os.WriteFile(fresh, []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to write fresh temp: %v", err)
	}

	cleaned, err := s.CleanStaleTemp(time.Hour)
	if err != nil {
		t.Fatalf("CleanStaleTemp failed: %v", err)
	}
	if cleaned != 1 {
		t.Errorf("expected 1 cleaned file, got %d", cleaned)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("expected stale temp file to be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("expected fresh temp file to survive: %v", err)
	}
}
