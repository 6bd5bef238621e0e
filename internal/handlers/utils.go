package handlers

import (
	"errors"
	"net/http"

	"stockgame/internal/game"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP responses. Trade rejections
// carry their reason code so clients can show a specific message.
func respondError(c *gin.Context, err error) {
	var rejection *game.TradeRejection
	if errors.As(err, &rejection) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  rejection.Message,
			"reason": rejection.Reason,
		})
		return
	}

	status := http.StatusInternalServerError
	switch game.KindOf(err) {
	case game.KindNotFound:
		status = http.StatusNotFound
	case game.KindConflict:
		status = http.StatusConflict
	case game.KindInvalidState, game.KindInvalidMode, game.KindValidation:
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
