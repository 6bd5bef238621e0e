package handlers

import (
	"net/http"

	"stockgame/internal/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	coordinator   *services.AdvanceCoordinator
	playerService *services.PlayerService
}

func NewGameHandler(coordinator *services.AdvanceCoordinator, playerService *services.PlayerService) *GameHandler {
	return &GameHandler{
		coordinator:   coordinator,
		playerService: playerService,
	}
}

type AdvanceDayRequest struct {
	DayTimeLimit *int `json:"day_time_limit"`
}

type SetTimerRequest struct {
	DurationSeconds *int `json:"duration_seconds" binding:"required"`
}

// POST /api/v1/rooms/:code/start
func (gh *GameHandler) StartGame(c *gin.Context) {
	room, err := gh.coordinator.StartGame(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// AdvanceDay moves a room to the next trading day
// @Summary Advance the game day
// @Description Advance the room to the next trading day, resetting player ready flags
// @Tags game
// @Accept json
// @Produce json
// @Param code path string true "Room code"
// @Success 200 {object} models.Room
// @Failure 400 {object} map[string]interface{} "Room not advanceable"
// @Router /rooms/{code}/advance-day [post]
func (gh *GameHandler) AdvanceDay(c *gin.Context) {
	var req AdvanceDayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	room, err := gh.coordinator.AdvanceDay(c.Param("code"), req.DayTimeLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// POST /api/v1/rooms/:code/end-game
func (gh *GameHandler) EndGame(c *gin.Context) {
	room, err := gh.coordinator.EndGame(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// POST /api/v1/rooms/:code/set-timer
func (gh *GameHandler) SetTimer(c *gin.Context) {
	var req SetTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := gh.coordinator.SetTimer(c.Param("code"), *req.DurationSeconds)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// GET /api/v1/rooms/:code/state
func (gh *GameHandler) GetRoomState(c *gin.Context) {
	state, err := gh.playerService.GetRoomState(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// RegisterGameRoutes registers all game lifecycle routes
func RegisterGameRoutes(router *gin.RouterGroup, handler *GameHandler) {
	rooms := router.Group("/rooms")
	{
		rooms.POST("/:code/start", handler.StartGame)
		rooms.POST("/:code/advance-day", handler.AdvanceDay)
		rooms.POST("/:code/end-game", handler.EndGame)
		rooms.POST("/:code/set-timer", handler.SetTimer)
		rooms.GET("/:code/state", handler.GetRoomState)
	}
}
