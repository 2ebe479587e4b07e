package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/azhagarpy/quize-app/internal/database"
	"github.com/azhagarpy/quize-app/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetRelations godoc
// @Summary      Get user relations
// @Description  Fetches the authenticated user's relations (friends, pending requests) filtered by status and direction.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "Filter by status (pending, accepted)"
// @Param        direction query     string  false  "Filter by direction (incoming, outgoing)"
// @Success      200       {array}   ProfileResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Router       /users/me/relations [get]
func GetRelations(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	statusFilter := c.Query("status")
	directionFilter := c.Query("direction")

	var relations []models.UserRelation
	query := database.DB

	switch directionFilter {
	case "incoming":
		query = query.Where("to_user_id = ?", viewerID)
	case "outgoing":
		query = query.Where("from_user_id = ?", viewerID)
	default:
		// No direction means either side of the relation.
		query = query.Where("from_user_id = ? OR to_user_id = ?", viewerID, viewerID)
	}

	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}

	if err := query.Find(&relations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch relations"})
		return
	}

	// Resolve the other party's game profile for each relation.
	responses := []ProfileResponse{}
	for _, r := range relations {
		otherID := r.FromUserID
		if r.FromUserID == viewerID.(uint) {
			otherID = r.ToUserID
		}

		var profile models.Profile
		if err := database.DB.Where("user_id = ?", otherID).First(&profile).Error; err != nil {
			continue
		}
		responses = append(responses, newProfileResponse(profile))
	}

	c.JSON(http.StatusOK, responses)
}

// SendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request to another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  map[string]string "{"message": "Request sent successfully"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Relation already exists"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/request [post]
func SendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	if viewerID.(uint) == uint(targetUserID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send request to yourself"})
		return
	}

	var existingRelation models.UserRelation
	err = database.DB.Where("from_user_id = ? AND to_user_id = ?", viewerID, targetUserID).First(&existingRelation).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusConflict, gin.H{"error": "Relation already exists or another error occurred"})
		return
	}

	newRelation := models.UserRelation{
		FromUserID: viewerID.(uint),
		ToUserID:   uint(targetUserID),
		Status:     models.StatusPending,
	}

	if err := database.DB.Create(&newRelation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create relation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Request sent successfully"})
}

// AcceptRequest godoc
// @Summary      Accept friend request
// @Description  Accepts a pending friend request from another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requesting User ID"
// @Success      200  {object}  map[string]string "{"message": "Request accepted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/accept [post]
func AcceptRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	requestingUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requesting user ID"})
		return
	}

	var request models.UserRelation
	err = database.DB.Where("from_user_id = ? AND to_user_id = ? AND status = ?", requestingUserID, viewerID, models.StatusPending).First(&request).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pending request not found"})
		return
	}

	if err := database.DB.Model(&request).Update("status", models.StatusAccepted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request accepted"})
}

// DeclineRequest godoc
// @Summary      Decline friend request
// @Description  Declines a pending friend request from another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requesting User ID"
// @Success      200  {object}  map[string]string "{"message": "Request declined"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/decline [post]
func DeclineRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	requestingUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requesting user ID"})
		return
	}

	result := database.DB.Where("from_user_id = ? AND to_user_id = ? AND status = ?", requestingUserID, viewerID, models.StatusPending).Delete(&models.UserRelation{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decline request"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pending request not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request declined"})
}

// RemoveRelation godoc
// @Summary      Remove relation
// @Description  Cancels a sent request, or removes a user from friends.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "Relation removed"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Relation not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/remove [post]
func RemoveRelation(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	result := database.DB.Where("from_user_id = ? AND to_user_id = ?", viewerID, targetUserID).Delete(&models.UserRelation{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove relation"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relation not found to remove"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Relation removed"})
}
