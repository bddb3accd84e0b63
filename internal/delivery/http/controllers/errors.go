package controllers

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/pkg/logger"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

var notFound = []error{
	app_errors.ErrAttemptNotFound,
	app_errors.ErrTopicNotFound,
	app_errors.ErrLessonNotFound,
	app_errors.ErrQuizNotFound,
	app_errors.ErrKeywordNotFound,
	app_errors.ErrExamFileNotFound,
}

// StatusFor maps a service error to the HTTP status it is reported with.
func StatusFor(err error) int {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	switch {
	case errors.Is(err, app_errors.ErrInvalidArgument), errors.Is(err, app_errors.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, app_errors.ErrInvalidState), errors.Is(err, app_errors.ErrDuplicateKeyword):
		return http.StatusConflict
	case errors.Is(err, app_errors.ErrFileSize):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// WriteError answers with {"error": ...}. Internal errors are logged and
// their text is not sent to the client.
func WriteError(c *gin.Context, log logger.Log, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		log.ErrorErr("request failed", err, "path", c.FullPath())
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// ParamID reads a positive integer path parameter. On failure it has already
// written a 400 response.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// QueryID reads an optional positive integer query parameter. A missing
// value yields nil.
func QueryID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	return &id, true
}
