package project

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"coursegrabber/internal/model"
	"coursegrabber/internal/store"
)

var ErrLessonNotFound = errors.New("lesson not found")

// ProjectPatch carries optional field updates. A nil field is left
// unchanged.
type ProjectPatch struct {
	Name         *string
	Description  *string
	SaveLocation *string
}

// LessonPatch carries optional lesson field updates.
type LessonPatch struct {
	Title *string
	Order *int
}

// Service implements project/lesson/URL CRUD over the file store. Every
// write is a full load-modify-save of the project record, guarded by a
// per-project mutex so concurrent writers cannot lose each other's
// updates.
type Service struct {
	store  *store.FileStore
	logger *log.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewService(st *store.FileStore, logger *log.Logger) *Service {
	return &Service{
		store:  st,
		logger: logger,
		locks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

// projectLock returns the mutex serializing writes to one project.
func (s *Service) projectLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Service) CreateProject(name, description, saveLocation string) (*model.Project, error) {
	if err := os.MkdirAll(saveLocation, 0755); err != nil {
		return nil, fmt.Errorf("create save location: %w", err)
	}

	now := time.Now().UTC()
	p := &model.Project{
		ID:           uuid.New(),
		Name:         name,
		Description:  description,
		SaveLocation: saveLocation,
		Lessons:      []model.Lesson{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Save(p); err != nil {
		return nil, err
	}
	s.logger.Printf("created project %s (%s)", p.Name, p.ID)
	return p, nil
}

func (s *Service) ListProjects() ([]*model.Project, error) {
	return s.store.List()
}

func (s *Service) GetProject(id uuid.UUID) (*model.Project, error) {
	return s.store.Load(id)
}

func (s *Service) UpdateProject(id uuid.UUID, patch ProjectPatch) (*model.Project, error) {
	l := s.projectLock(id)
	l.Lock()
	defer l.Unlock()

	p, err := s.store.Load(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.SaveLocation != nil {
		if err := os.MkdirAll(*patch.SaveLocation, 0755); err != nil {
			return nil, fmt.Errorf("create save location: %w", err)
		}
		p.SaveLocation = *patch.SaveLocation
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeleteProject(id uuid.UUID) (bool, error) {
	l := s.projectLock(id)
	l.Lock()
	defer l.Unlock()

	return s.store.Delete(id)
}

func (s *Service) AddLesson(projectID uuid.UUID, title string, order *int) (*model.Lesson, error) {
	l := s.projectLock(projectID)
	l.Lock()
	defer l.Unlock()

	p, err := s.store.Load(projectID)
	if err != nil {
		return nil, err
	}

	ord := len(p.Lessons) + 1
	if order != nil {
		ord = *order
	}

	now := time.Now().UTC()
	lesson := model.Lesson{
		ID:        uuid.New(),
		Title:     title,
		Order:     ord,
		URLs:      []model.LessonURL{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Lessons = append(p.Lessons, lesson)
	p.UpdatedAt = now

	if err := s.store.Save(p); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (s *Service) UpdateLesson(projectID, lessonID uuid.UUID, patch LessonPatch) (*model.Lesson, error) {
	l := s.projectLock(projectID)
	l.Lock()
	defer l.Unlock()

	p, err := s.store.Load(projectID)
	if err != nil {
		return nil, err
	}

	for i := range p.Lessons {
		if p.Lessons[i].ID != lessonID {
			continue
		}
		if patch.Title != nil {
			p.Lessons[i].Title = *patch.Title
		}
		if patch.Order != nil {
			p.Lessons[i].Order = *patch.Order
		}
		now := time.Now().UTC()
		p.Lessons[i].UpdatedAt = now
		p.UpdatedAt = now

		if err := s.store.Save(p); err != nil {
			return nil, err
		}
		lesson := p.Lessons[i]
		return &lesson, nil
	}
	return nil, ErrLessonNotFound
}

func (s *Service) DeleteLesson(projectID, lessonID uuid.UUID) (bool, error) {
	l := s.projectLock(projectID)
	l.Lock()
	defer l.Unlock()

	p, err := s.store.Load(projectID)
	if err != nil {
		return false, err
	}

	kept := p.Lessons[:0]
	for _, lesson := range p.Lessons {
		if lesson.ID != lessonID {
			kept = append(kept, lesson)
		}
	}
	if len(kept) == len(p.Lessons) {
		return false, nil
	}
	p.Lessons = kept
	p.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(p); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) AddURL(projectID, lessonID uuid.UUID, rawURL string, partNumber *int) (*model.LessonURL, error) {
	l := s.projectLock(projectID)
	l.Lock()
	defer l.Unlock()

	p, err := s.store.Load(projectID)
	if err != nil {
		return nil, err
	}

	for i := range p.Lessons {
		if p.Lessons[i].ID != lessonID {
			continue
		}
		part := len(p.Lessons[i].URLs) + 1
		if partNumber != nil {
			part = *partNumber
		}
		u := model.LessonURL{
			ID:         uuid.New(),
			URL:        rawURL,
			PartNumber: part,
			Status:     model.StatusPending,
		}
		p.Lessons[i].URLs = append(p.Lessons[i].URLs, u)

		now := time.Now().UTC()
		p.Lessons[i].UpdatedAt = now
		p.UpdatedAt = now

		if err := s.store.Save(p); err != nil {
			return nil, err
		}
		return &u, nil
	}
	return nil, ErrLessonNotFound
}

func (s *Service) DeleteURL(projectID, lessonID, urlID uuid.UUID) (bool, error) {
	l := s.projectLock(projectID)
	l.Lock()
	defer l.Unlock()

	p, err := s.store.Load(projectID)
	if err != nil {
		return false, err
	}

	for i := range p.Lessons {
		if p.Lessons[i].ID != lessonID {
			continue
		}
		kept := p.Lessons[i].URLs[:0]
		for _, u := range p.Lessons[i].URLs {
			if u.ID != urlID {
				kept = append(kept, u)
			}
		}
		if len(kept) == len(p.Lessons[i].URLs) {
			return false, nil
		}
		p.Lessons[i].URLs = kept

		now := time.Now().UTC()
		p.Lessons[i].UpdatedAt = now
		p.UpdatedAt = now

		if err := s.store.Save(p); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
