package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"coursegrabber/internal/model"
)

var (
	ErrNotFound = errors.New("project not found")
	ErrCorrupt  = errors.New("project record corrupt")
)

// FileStore persists one JSON file per project under dir. Writes go
// through a temp file and rename, so a reader never sees a half-written
// record. The store does no locking of its own; callers serialize their
// load-modify-save cycles.
type FileStore struct {
	dir    string
	logger *log.Logger
}

func NewFileStore(dir string, logger *log.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

func (s *FileStore) path(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+".json")
}

// Save writes the full project aggregate, replacing any prior record.
func (s *FileStore) Save(p *model.Project) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project %s: %w", p.ID, err)
	}

	dst := s.path(p.ID)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write project %s: %w", p.ID, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write project %s: %w", p.ID, err)
	}
	return nil
}

// Load reads one project. A missing record returns ErrNotFound, an
// unparsable one ErrCorrupt.
func (s *FileStore) Load(id uuid.UUID) (*model.Project, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read project %s: %w", id, err)
	}

	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, id, err)
	}
	return &p, nil
}

// List returns all readable projects, newest first. Records that fail to
// parse are logged and skipped rather than failing the whole listing.
func (s *FileStore) List() ([]*model.Project, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read projects dir: %w", err)
	}

	projects := make([]*model.Project, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			s.logger.Printf("skipping unreadable project file %s: %v", e.Name(), err)
			continue
		}
		var p model.Project
		if err := json.Unmarshal(data, &p); err != nil {
			s.logger.Printf("skipping corrupt project file %s: %v", e.Name(), err)
			continue
		}
		projects = append(projects, &p)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

// Delete removes a project record and reports whether it existed.
func (s *FileStore) Delete(id uuid.UUID) (bool, error) {
	err := os.Remove(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete project %s: %w", id, err)
	}
	return true, nil
}
