package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/taskkeeper/internal/common"
	"github.com/avolkau/taskkeeper/internal/server/auth"
	"github.com/avolkau/taskkeeper/internal/server/services"
)

func (s *Server) handleListTasks(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	tasks, err := s.tasks.ListForUser(c.Request.Context(), identity.UserID)
	if err != nil {
		s.writeTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

func (s *Server) handleCreateTask(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), identity.UserID,
		strings.TrimSpace(req.Title), trimDescription(req.Description))
	if err != nil {
		s.writeTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (s *Server) handleGetTask(c *gin.Context) {
	identity, id, ok := s.taskRequest(c)
	if !ok {
		return
	}

	task, err := s.tasks.GetForUser(c.Request.Context(), id, identity.UserID)
	if err != nil {
		s.writeTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	identity, id, ok := s.taskRequest(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := services.TaskPatch{
		Done: req.Done,
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		patch.Title = &title
	}
	// A whitespace-only description trims to "" and still clears the field.
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		patch.Description = &description
	}

	task, err := s.tasks.Update(c.Request.Context(), id, identity.UserID, patch)
	if err != nil {
		s.writeTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	identity, id, ok := s.taskRequest(c)
	if !ok {
		return
	}

	if err := s.tasks.Delete(c.Request.Context(), id, identity.UserID); err != nil {
		s.writeTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// taskRequest extracts the caller identity and the task id path parameter,
// answering the request itself when either is unusable.
func (s *Server) taskRequest(c *gin.Context) (*auth.Identity, int64, bool) {
	identity, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return nil, 0, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return nil, 0, false
	}

	return identity, id, true
}

// writeTaskError maps service errors to HTTP answers. Internals are logged
// but never leaked to the client.
func (s *Server) writeTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "you cannot modify this task"})
	default:
		s.logger.Error(c.Request.Context(), "task operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
