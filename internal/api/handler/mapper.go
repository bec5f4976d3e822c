package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crazyimage/task-system/internal/core/domain"
	"github.com/crazyimage/task-system/internal/core/ports"
)

// --- Request → Service input ---

func toUserInput(req userRequest) *ports.UserInput {
	return &ports.UserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
}

func toCreateTaskInput(req createTaskRequest) *ports.CreateTaskInput {
	var userID int64
	if req.UserID != nil {
		userID = *req.UserID
	}
	return &ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		UserID:      userID,
	}
}

func toUpdateTaskInput(req updateTaskRequest) *ports.UpdateTaskInput {
	return &ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
}

// --- Service result → Response ---

func toUserResponse(u ports.UserDetail) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: timePtr(u.CreatedAt),
		UpdatedAt: timePtr(u.UpdatedAt),
	}
}

func toTaskResponse(t ports.TaskDetail) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		UserID:      t.UserID,
		CreatedAt:   timePtr(t.CreatedAt),
		UpdatedAt:   timePtr(t.UpdatedAt),
	}
	if t.User != nil {
		u := toUserResponse(*t.User)
		resp.User = &u
	}
	return resp
}

func toJWTResponse(res *ports.LoginResult) jwtResponse {
	return jwtResponse{
		Token:  res.Token,
		Type:   "Bearer",
		Email:  res.User.Email,
		Nombre: res.User.Username,
		ID:     res.User.ID,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// pathID parses the :id path parameter. Non-numeric values are rejected with
// 400; range checks are left to the services.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, domain.ErrInvalidID.Error())
	}
	return id, nil
}
