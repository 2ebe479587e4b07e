package handler

import (
	"net/http"
	"strconv"

	"github.com/azhagarpy/quize-app/internal/database"
	"github.com/azhagarpy/quize-app/internal/models"
	"github.com/azhagarpy/quize-app/pkg/rank"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// ProfileResponse defines the structure for a player's profile with rank data.
type ProfileResponse struct {
	ID           uint       `json:"id"`
	UserID       uint       `json:"user_id"`
	Username     string     `json:"username"`
	Experience   int        `json:"experience"`
	Level        int        `json:"level"`
	Rank         rank.Info  `json:"rank"`
	NextRank     *rank.Info `json:"next_rank,omitempty"`
	RankProgress int        `json:"rank_progress"`
}

func newProfileResponse(profile models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:           profile.ID,
		UserID:       profile.UserID,
		Username:     profile.Username,
		Experience:   profile.Experience,
		Level:        profile.Level,
		Rank:         rank.Calculate(profile.Experience),
		NextRank:     rank.Next(profile.Experience),
		RankProgress: rank.Progress(profile.Experience),
	}
}

// endregion

// GetMe godoc
// @Summary      Get current user's profile
// @Description  Retrieves the game profile, rank, and progress for the authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var profile models.Profile
	if err := database.DB.Where("user_id = ?", viewerID.(uint)).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(profile))
}

// GetUserByID godoc
// @Summary      Get a user's profile by ID
// @Description  Retrieves the public game profile for a specific user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  ProfileResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func GetUserByID(c *gin.Context) {
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var profile models.Profile
	if err := database.DB.Where("user_id = ?", uint(targetUserID)).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(profile))
}
