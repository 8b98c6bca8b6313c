package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"wagchain/internal/service"

	"github.com/gin-gonic/gin"
)

// ListTasks returns all tasks. When a valid bearer token is present the
// response also flags which tasks the caller already completed; the route
// itself stays public.
func (h *Handler) ListTasks(c *gin.Context) {
	var accountID int64
	if header := c.GetHeader("Authorization"); header != "" {
		token := strings.TrimPrefix(header, "Bearer ")
		if id, err := service.ParseJWT(token); err == nil {
			accountID = id
		}
	}

	tasks, err := h.Tasks.ListWithStatus(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CompleteTask records a completion and credits the reward. Completing the
// same task twice is a no-op, reported as already_completed rather than an
// error so a re-click is harmless.
func (h *Handler) CompleteTask(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	result, err := h.Tasks.Complete(c.Request.Context(), accountID, taskID)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete task, try again"})
		return
	}

	if result.AlreadyCompleted {
		c.JSON(http.StatusOK, gin.H{
			"already_completed": true,
			"balance":           result.NewBalance,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"already_completed": false,
		"reward":            result.Completion.Reward,
		"balance":           result.NewBalance,
	})
}
