package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"wagchain/internal/domain"
	"wagchain/internal/repository"

	"github.com/gin-gonic/gin"
)

// RequireAdmin gates a route group on the account's role. Runs after JWT().
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := getUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		account, err := h.AccountRepo.GetByID(c.Request.Context(), accountID)
		if err != nil || !account.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

type taskRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Reward      int64             `json:"reward" binding:"required,gt=0"`
	TaskType    domain.TaskType   `json:"task_type" binding:"required,oneof=daily weekly"`
	Difficulty  domain.Difficulty `json:"difficulty" binding:"required,oneof=easy medium hard"`
	URL         *string           `json:"url"`
}

func (h *Handler) AdminCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task payload"})
		return
	}

	task := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Reward:      req.Reward,
		TaskType:    req.TaskType,
		Difficulty:  req.Difficulty,
		URL:         req.URL,
	}
	if err := h.TaskRepo.Create(c.Request.Context(), task); err != nil {
		if repository.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "task with this title already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *Handler) AdminUpdateTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task payload"})
		return
	}

	task := &domain.Task{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Reward:      req.Reward,
		TaskType:    req.TaskType,
		Difficulty:  req.Difficulty,
		URL:         req.URL,
	}
	if err := h.TaskRepo.Update(c.Request.Context(), task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *Handler) AdminDeleteTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	if err := h.TaskRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) AdminListAccounts(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	accounts, err := h.AccountRepo.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list accounts"})
		return
	}

	var out []gin.H
	for _, a := range accounts {
		out = append(out, accountJSON(a))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}
