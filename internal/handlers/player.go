package handlers

import (
	"net/http"

	"stockgame/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PlayerHandler struct {
	playerService *services.PlayerService
}

func NewPlayerHandler(playerService *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
	}
}

type UpdatePlayerStateRequest struct {
	CurrentDay int                   `json:"current_day"`
	Trades     []services.TradeOrder `json:"trades"`
}

// UpdateState advances a player's day and executes their trades
// @Summary Update player state
// @Description Advance the player to a day and execute the submitted trades at the next trading day's open
// @Tags players
// @Accept json
// @Produce json
// @Param id path string true "Player ID"
// @Param request body UpdatePlayerStateRequest true "Day and trades"
// @Success 200 {object} models.Player
// @Failure 400 {object} map[string]interface{} "Trade rejected"
// @Failure 404 {object} map[string]interface{} "Player not found"
// @Router /players/{id} [put]
func (ph *PlayerHandler) UpdateState(c *gin.Context) {
	playerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	var req UpdatePlayerStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := ph.playerService.UpdateState(playerID, services.UpdateStateParams{
		CurrentDay: req.CurrentDay,
		Trades:     req.Trades,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

// POST /api/v1/players/:id/ready
func (ph *PlayerHandler) MarkReady(c *gin.Context) {
	playerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	player, err := ph.playerService.MarkReady(playerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

// GET /api/v1/players/:id
func (ph *PlayerHandler) GetPlayer(c *gin.Context) {
	playerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	player, err := ph.playerService.GetPlayer(playerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

// RegisterPlayerRoutes registers all player routes
func RegisterPlayerRoutes(router *gin.RouterGroup, handler *PlayerHandler) {
	players := router.Group("/players")
	{
		players.GET("/:id", handler.GetPlayer)
		players.PUT("/:id", handler.UpdateState)
		players.POST("/:id/ready", handler.MarkReady)
	}
}
