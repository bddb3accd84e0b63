package examfile

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/delivery/http/controllers"
	"ForestEdu/internal/models"
	"ForestEdu/internal/service/examfile"
	"ForestEdu/pkg/logger"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// multipart framing allowance on top of the file itself
const formOverhead = 1 << 20

type Service interface {
	Upload(ctx context.Context, u examfile.Upload) (*models.ExamFile, error)
	ListExamFiles(ctx context.Context, topicID *int64) ([]models.ExamFile, error)
	ExamFileByID(ctx context.Context, id int64) (*models.ExamFile, error)
	DeleteExamFile(ctx context.Context, id int64) error
	MaxSizeBytes() int64
}

type Handler struct {
	log     logger.Log
	service Service
}

func NewHandler(log logger.Log, s Service) *Handler {
	return &Handler{log: log, service: s}
}

func (h *Handler) ListExamFiles(c *gin.Context) {
	topicID, ok := controllers.QueryID(c, "topic_id")
	if !ok {
		return
	}
	files, err := h.service.ListExamFiles(c.Request.Context(), topicID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (h *Handler) ExamFileByID(c *gin.Context) {
	id, ok := controllers.ParamID(c, "file_id")
	if !ok {
		return
	}
	f, err := h.service.ExamFileByID(c.Request.Context(), id)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// UploadExamFile accepts multipart form fields file, title, topic_id and
// uploaded_by.
func (h *Handler) UploadExamFile(c *gin.Context) {
	if limit := h.service.MaxSizeBytes(); limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+formOverhead)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			controllers.WriteError(c, h.log, fmt.Errorf("%w: request body too large", app_errors.ErrFileSize))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	var topicID *int64
	if raw := strings.TrimSpace(c.PostForm("topic_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic_id"})
			return
		}
		topicID = &id
	}
	var uploadedBy *string
	if by := strings.TrimSpace(c.PostForm("uploaded_by")); by != "" {
		uploadedBy = &by
	}

	file, err := fileHeader.Open()
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	defer file.Close()

	f, err := h.service.Upload(c.Request.Context(), examfile.Upload{
		Title:       c.PostForm("title"),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
		TopicID:     topicID,
		UploadedBy:  uploadedBy,
	})
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *Handler) DeleteExamFile(c *gin.Context) {
	id, ok := controllers.ParamID(c, "file_id")
	if !ok {
		return
	}
	if err := h.service.DeleteExamFile(c.Request.Context(), id); err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
