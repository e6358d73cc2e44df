package httpapi

import (
	"strings"

	"github.com/avolkau/taskkeeper/internal/server/models"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,notblank"`
	Description *string `json:"description" binding:"omitempty"`
}

// updateTaskRequest carries a partial update: nil means "leave unchanged".
// An explicit empty description clears the stored value.
type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,notblank"`
	Description *string `json:"description" binding:"omitempty"`
	Done        *bool   `json:"done" binding:"omitempty"`
}

type taskResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Done        bool    `json:"done"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email}
}

func toTaskResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Done:        t.Done,
	}
}

func toTaskResponses(ts []*models.Task) []taskResponse {
	result := make([]taskResponse, 0, len(ts))
	for _, t := range ts {
		result = append(result, toTaskResponse(t))
	}
	return result
}

// trimDescription normalizes a create-time description: surrounding
// whitespace is dropped and a blank value becomes absent.
func trimDescription(d *string) *string {
	if d == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
