package handlers

import (
	"net/http"
	"strconv"

	"stockgame/internal/models"
	"stockgame/internal/services"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	roomService   *services.RoomService
	playerService *services.PlayerService
}

func NewRoomHandler(roomService *services.RoomService, playerService *services.PlayerService) *RoomHandler {
	return &RoomHandler{
		roomService:   roomService,
		playerService: playerService,
	}
}

type CreateRoomRequest struct {
	CreatedBy          string            `json:"created_by" binding:"required"`
	RoomName           string            `json:"room_name"`
	Config             models.GameConfig `json:"config"`
	StartDate          string            `json:"start_date"`
	EndDate            string            `json:"end_date"`
	GameMode           models.GameMode   `json:"game_mode"`
	DayDurationSeconds *int              `json:"day_duration_seconds"`
}

type JoinRoomRequest struct {
	RoomCode    string `json:"room_code" binding:"required"`
	PlayerName  string `json:"player_name" binding:"required"`
	PlayerEmail string `json:"player_email"`
}

// CreateRoom creates a new game room
// @Summary Create a game room
// @Description Create a room with a game configuration and receive its join code
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body CreateRoomRequest true "Room settings"
// @Success 201 {object} models.Room
// @Failure 400 {object} map[string]interface{} "Invalid configuration"
// @Router /rooms [post]
func (rh *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := rh.roomService.CreateRoom(services.CreateRoomParams{
		CreatedBy:          req.CreatedBy,
		RoomName:           req.RoomName,
		Config:             req.Config,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		GameMode:           req.GameMode,
		DayDurationSeconds: req.DayDurationSeconds,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

// GET /api/v1/rooms?status=waiting&limit=20
func (rh *RoomHandler) ListRooms(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
			return
		}
		limit = parsed
	}

	rooms, err := rh.roomService.ListRooms(models.RoomStatus(c.Query("status")), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms, "count": len(rooms)})
}

// JoinRoom adds a player to a room by its code
// @Summary Join a game room
// @Description Join a room by code with a unique player name
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body JoinRoomRequest true "Join details"
// @Success 200 {object} models.Player
// @Failure 404 {object} map[string]interface{} "Room not found"
// @Failure 409 {object} map[string]interface{} "Player name taken"
// @Router /rooms/join [post]
func (rh *RoomHandler) JoinRoom(c *gin.Context) {
	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := rh.roomService.JoinRoom(req.RoomCode, req.PlayerName, req.PlayerEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

// GET /api/v1/rooms/:code
func (rh *RoomHandler) GetRoom(c *gin.Context) {
	room, err := rh.roomService.GetRoom(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// DELETE /api/v1/rooms/:code
func (rh *RoomHandler) DeleteRoom(c *gin.Context) {
	if err := rh.roomService.DeleteRoom(c.Param("code")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted"})
}

// GET /api/v1/rooms/:code/leaderboard
func (rh *RoomHandler) GetLeaderboard(c *gin.Context) {
	entries, err := rh.playerService.Leaderboard(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// RegisterRoomRoutes registers all room routes
func RegisterRoomRoutes(router *gin.RouterGroup, handler *RoomHandler) {
	rooms := router.Group("/rooms")
	{
		rooms.POST("", handler.CreateRoom)
		rooms.GET("", handler.ListRooms)
		rooms.POST("/join", handler.JoinRoom)
		rooms.GET("/:code", handler.GetRoom)
		rooms.DELETE("/:code", handler.DeleteRoom)
		rooms.GET("/:code/leaderboard", handler.GetLeaderboard)
	}
}
