package download

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/google/uuid"

	"coursegrabber/internal/model"
)

var ErrJobNotFound = errors.New("download job not found")

// Manager runs download jobs. A job covers one project submission and
// downloads its URLs strictly one at a time on a background goroutine,
// so the submitter returns immediately and progress semantics stay
// simple (one URL downloading per job).
type Manager struct {
	tracker    *Tracker
	downloader Downloader
	logger     *log.Logger
}

func NewManager(dl Downloader, logger *log.Logger) *Manager {
	return &Manager{
		tracker:    NewTracker(),
		downloader: dl,
		logger:     logger,
	}
}

// Start begins downloading the given project (all lessons when
// lessonIDs is empty, else the matching subset) and returns the job id,
// which is the project's own id. The caller is never blocked on
// transfer I/O.
func (m *Manager) Start(p *model.Project, lessonIDs []uuid.UUID) uuid.UUID {
	m.tracker.Init(p.ID)
	go m.run(p, lessonIDs)
	return p.ID
}

// Status reports the aggregate and per-URL progress for a job.
func (m *Manager) Status(jobID uuid.UUID) (JobStatus, error) {
	st, ok := m.tracker.Status(jobID)
	if !ok {
		return JobStatus{}, ErrJobNotFound
	}
	return st, nil
}

// Cancel drops tracking for a job. It does not interrupt an in-flight
// transfer; that transfer finishes on its own and its late progress
// records are discarded by the tracker. Cancelling an unknown job is a
// no-op.
func (m *Manager) Cancel(jobID uuid.UUID) {
	m.tracker.Clear(jobID)
}

func (m *Manager) run(p *model.Project, lessonIDs []uuid.UUID) {
	lessons := selectLessons(p.Lessons, lessonIDs)
	m.logger.Printf("job %s: downloading %d lessons of project %q", p.ID, len(lessons), p.Name)

	for _, lesson := range lessons {
		for _, u := range lesson.URLs {
			m.downloadOne(p, lesson, u)
		}
	}
	m.logger.Printf("job %s: finished", p.ID)
}

// downloadOne drives a single URL to its terminal status. Failures are
// recorded and swallowed so one bad URL never aborts the rest of the
// job.
func (m *Manager) downloadOne(p *model.Project, lesson model.Lesson, u model.LessonURL) {
	tmpl := outputTemplate(p.SaveLocation, lesson, u)

	m.tracker.Record(p.ID, model.DownloadProgress{
		LessonID: lesson.ID,
		URLID:    u.ID,
		Status:   model.StatusDownloading,
	})

	// Single consumer per transfer: adapter events funnel through this
	// channel into the tracker.
	events := make(chan Event, 16)
	done := make(chan struct{})
	var filename string
	go func() {
		defer close(done)
		for ev := range events {
			if ev.Filename != "" {
				filename = ev.Filename
			}
			m.tracker.Record(p.ID, model.DownloadProgress{
				LessonID: lesson.ID,
				URLID:    u.ID,
				Status:   model.StatusDownloading,
				Progress: ev.Percent,
				Speed:    ev.Speed,
				ETA:      ev.ETA,
				Filename: filename,
			})
		}
	}()

	err := m.downloader.Download(context.Background(), u.URL, tmpl, events)
	close(events)
	<-done

	if err != nil {
		m.logger.Printf("job %s: url %s failed: %v", p.ID, u.ID, err)
		m.tracker.Record(p.ID, model.DownloadProgress{
			LessonID: lesson.ID,
			URLID:    u.ID,
			Status:   model.StatusFailed,
			Filename: filename,
			Error:    err.Error(),
		})
		return
	}

	m.tracker.Record(p.ID, model.DownloadProgress{
		LessonID: lesson.ID,
		URLID:    u.ID,
		Status:   model.StatusCompleted,
		Progress: 100,
		Filename: filename,
	})
}

// selectLessons returns all lessons when ids is empty, otherwise the
// subset matching ids in stored order.
func selectLessons(lessons []model.Lesson, ids []uuid.UUID) []model.Lesson {
	if len(ids) == 0 {
		return lessons
	}
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	selected := make([]model.Lesson, 0, len(ids))
	for _, l := range lessons {
		if want[l.ID] {
			selected = append(selected, l)
		}
	}
	return selected
}

// outputTemplate builds the yt-dlp style output path for one URL:
// "Title.%(ext)s" for single-part lessons, "Title part N.%(ext)s"
// otherwise.
func outputTemplate(saveLocation string, lesson model.Lesson, u model.LessonURL) string {
	name := lesson.Title + ".%(ext)s"
	if len(lesson.URLs) > 1 {
		name = fmt.Sprintf("%s part %d.%%(ext)s", lesson.Title, u.PartNumber)
	}
	return filepath.Join(saveLocation, name)
}
