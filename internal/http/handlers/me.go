package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	account, err := h.AccountRepo.GetByID(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, accountJSON(account))
}

// MyHistory returns recent ledger entries for the current account
func (h *Handler) MyHistory(c *gin.Context) {
	accountID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	transactions, err := h.Ledger.History(c.Request.Context(), accountID, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get history"})
		return
	}

	out := make([]map[string]interface{}, 0, len(transactions))
	for _, tx := range transactions {
		out = append(out, map[string]interface{}{
			"id":     tx.ID,
			"type":   tx.Type,
			"amount": tx.Amount,
			"meta":   tx.Meta,
			"date":   tx.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"history": out})
}
