package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursegrabber/internal/download"
	"coursegrabber/internal/project"
	"coursegrabber/internal/store"
)

type APIHandler struct {
	Projects  *project.Service
	Downloads *download.Manager
}

type CreateProjectRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	SaveLocation string `json:"save_location" binding:"required"`
}

type UpdateProjectRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	SaveLocation *string `json:"save_location"`
}

type CreateLessonRequest struct {
	Title string `json:"title" binding:"required"`
	Order *int   `json:"order"`
}

type UpdateLessonRequest struct {
	Title *string `json:"title"`
	Order *int    `json:"order"`
}

type AddURLRequest struct {
	URL        string `json:"url" binding:"required"`
	PartNumber *int   `json:"part_number"`
}

type StartDownloadRequest struct {
	ProjectID uuid.UUID   `json:"project_id" binding:"required"`
	LessonIDs []uuid.UUID `json:"lesson_ids"`
}

type downloadStatusResponse struct {
	DownloadID uuid.UUID `json:"download_id"`
	download.JobStatus
}

func RegisterHandlers(r *gin.Engine, projects *project.Service, downloads *download.Manager) {
	h := &APIHandler{Projects: projects, Downloads: downloads}

	r.GET("/api/health", h.health)

	r.GET("/api/projects", h.listProjects)
	r.POST("/api/projects", h.createProject)
	r.GET("/api/projects/:id", h.getProject)
	r.PUT("/api/projects/:id", h.updateProject)
	r.DELETE("/api/projects/:id", h.deleteProject)

	r.POST("/api/projects/:id/lessons", h.addLesson)
	r.PUT("/api/projects/:id/lessons/:lessonId", h.updateLesson)
	r.DELETE("/api/projects/:id/lessons/:lessonId", h.deleteLesson)

	r.POST("/api/projects/:id/lessons/:lessonId/urls", h.addURL)
	r.DELETE("/api/projects/:id/lessons/:lessonId/urls/:urlId", h.deleteURL)

	r.POST("/api/downloads", h.startDownload)
	r.GET("/api/downloads/:id/status", h.downloadStatus)
	r.DELETE("/api/downloads/:id", h.cancelDownload)
}

func (h *APIHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// pathID parses a UUID path parameter, replying 400 itself when the
// value is malformed.
func pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

func replyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
	case errors.Is(err, project.ErrLessonNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "lesson not found"})
	case errors.Is(err, store.ErrCorrupt):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project record corrupt"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *APIHandler) listProjects(c *gin.Context) {
	projects, err := h.Projects.ListProjects()
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *APIHandler) createProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.Projects.CreateProject(req.Name, req.Description, req.SaveLocation)
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *APIHandler) getProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.Projects.GetProject(id)
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *APIHandler) updateProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.Projects.UpdateProject(id, project.ProjectPatch{
		Name:         req.Name,
		Description:  req.Description,
		SaveLocation: req.SaveLocation,
	})
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *APIHandler) deleteProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.Projects.DeleteProject(id)
	if err != nil {
		replyError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) addLesson(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	lesson, err := h.Projects.AddLesson(id, req.Title, req.Order)
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

func (h *APIHandler) updateLesson(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lessonID, ok := pathID(c, "lessonId")
	if !ok {
		return
	}

	var req UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	lesson, err := h.Projects.UpdateLesson(id, lessonID, project.LessonPatch{
		Title: req.Title,
		Order: req.Order,
	})
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (h *APIHandler) deleteLesson(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lessonID, ok := pathID(c, "lessonId")
	if !ok {
		return
	}

	deleted, err := h.Projects.DeleteLesson(id, lessonID)
	if err != nil {
		replyError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "lesson not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) addURL(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lessonID, ok := pathID(c, "lessonId")
	if !ok {
		return
	}

	var req AddURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := h.Projects.AddURL(id, lessonID, req.URL, req.PartNumber)
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *APIHandler) deleteURL(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lessonID, ok := pathID(c, "lessonId")
	if !ok {
		return
	}
	urlID, ok := pathID(c, "urlId")
	if !ok {
		return
	}

	deleted, err := h.Projects.DeleteURL(id, lessonID, urlID)
	if err != nil {
		replyError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "url not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) startDownload(c *gin.Context) {
	var req StartDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.Projects.GetProject(req.ProjectID)
	if err != nil {
		replyError(c, err)
		return
	}

	jobID := h.Downloads.Start(p, req.LessonIDs)
	c.JSON(http.StatusAccepted, gin.H{
		"message":      "download started",
		"download_id":  jobID,
		"project_name": p.Name,
	})
}

func (h *APIHandler) downloadStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	st, err := h.Downloads.Status(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "download not found"})
		return
	}
	c.JSON(http.StatusOK, downloadStatusResponse{DownloadID: id, JobStatus: st})
}

func (h *APIHandler) cancelDownload(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	h.Downloads.Cancel(id)
	c.JSON(http.StatusOK, gin.H{"message": "download cancelled"})
}
