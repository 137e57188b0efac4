package model

import (
	"time"

	"github.com/google/uuid"
)

type DownloadStatus string

const (
	StatusPending     DownloadStatus = "pending"
	StatusDownloading DownloadStatus = "downloading"
	StatusCompleted   DownloadStatus = "completed"
	StatusFailed      DownloadStatus = "failed"
	StatusPaused      DownloadStatus = "paused"
)

// LessonURL is a single downloadable source within a lesson. Multi-part
// lessons hold several URLs distinguished by PartNumber.
type LessonURL struct {
	ID         uuid.UUID      `json:"id"`
	URL        string         `json:"url"`
	PartNumber int            `json:"part_number"`
	Status     DownloadStatus `json:"status"`
	Filename   string         `json:"filename,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Lesson is a titled unit within a project. Order is advisory metadata;
// the stored slice order is what downloads iterate over.
type Lesson struct {
	ID        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	Order     int         `json:"order"`
	URLs      []LessonURL `json:"urls"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Project is the top-level aggregate. It is persisted as one
// self-contained record including all lessons and URLs.
type Project struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	SaveLocation string    `json:"save_location"`
	Lessons      []Lesson  `json:"lessons"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DownloadProgress is the latest known state of one URL inside a running
// job. It lives in memory only and is never persisted.
type DownloadProgress struct {
	LessonID uuid.UUID      `json:"lesson_id"`
	URLID    uuid.UUID      `json:"url_id"`
	Status   DownloadStatus `json:"status"`
	Progress float64        `json:"progress"` // 0-100
	Speed    string         `json:"speed,omitempty"`
	ETA      string         `json:"eta,omitempty"`
	Filename string         `json:"filename,omitempty"`
	Error    string         `json:"error,omitempty"`
}
