package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/azhagarpy/quize-app/internal/database"
	"github.com/azhagarpy/quize-app/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// region --- DTOs ---

type QuestionInput struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2,max=6,dive,required"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	Difficulty    string   `json:"difficulty" binding:"required,oneof=easy medium hard"`
}

// AdminQuestionResponse is the admin view of a question, correct answer
// included.
type AdminQuestionResponse struct {
	ID            uint      `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correct_answer"`
	Category      string    `json:"category"`
	Difficulty    string    `json:"difficulty"`
}

func newAdminQuestionResponse(q models.Question) AdminQuestionResponse {
	return AdminQuestionResponse{
		ID:            q.ID,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
		Text:          q.Text,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Category:      q.Category,
		Difficulty:    q.Difficulty,
	}
}

// endregion

func validQuestionInput(input QuestionInput) bool {
	for _, option := range input.Options {
		if option == input.CorrectAnswer {
			return true
		}
	}
	return false
}

// CreateQuestion godoc
// @Summary      Create a question
// @Description  Adds a question to the pool. The correct answer must be one of the options.
// @Tags         admin-questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body QuestionInput true "Question"
// @Success      201  {object}  AdminQuestionResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/questions [post]
func CreateQuestion(c *gin.Context) {
	var input QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validQuestionInput(input) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Correct answer must be one of the options"})
		return
	}

	question := models.Question{
		Text:          input.Text,
		Options:       datatypes.NewJSONSlice(input.Options),
		CorrectAnswer: input.CorrectAnswer,
		Category:      input.Category,
		Difficulty:    input.Difficulty,
	}
	if err := database.DB.Create(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	c.JSON(http.StatusCreated, newAdminQuestionResponse(question))
}

// GetQuestions godoc
// @Summary      List questions
// @Description  Retrieves a paginated list of questions, optionally filtered by category and difficulty.
// @Tags         admin-questions
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(20)
// @Param        category query string false "Filter by category"
// @Param        difficulty query string false "Filter by difficulty"
// @Success      200  {object}  PaginatedResponse[AdminQuestionResponse]
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/questions [get]
func GetQuestions(c *gin.Context) {
	page, limit := pageParams(c)

	query := database.DB.Model(&models.Question{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	paginated, err := Paginate[models.Question](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}

	responses := make([]AdminQuestionResponse, 0, len(paginated.Data))
	for _, q := range paginated.Data {
		responses = append(responses, newAdminQuestionResponse(q))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, paginated.Meta.TotalItems, page, limit))
}

// UpdateQuestion godoc
// @Summary      Update a question
// @Description  Replaces an existing question's fields.
// @Tags         admin-questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int           true  "Question ID"
// @Param        input body QuestionInput true "New question data"
// @Success      200  {object}  AdminQuestionResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Question not found"
// @Router       /admin/questions/{id} [put]
func UpdateQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var input QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validQuestionInput(input) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Correct answer must be one of the options"})
		return
	}

	var question models.Question
	if err := database.DB.First(&question, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	question.Text = input.Text
	question.Options = datatypes.NewJSONSlice(input.Options)
	question.CorrectAnswer = input.CorrectAnswer
	question.Category = input.Category
	question.Difficulty = input.Difficulty
	if err := database.DB.Save(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update question"})
		return
	}

	c.JSON(http.StatusOK, newAdminQuestionResponse(question))
}

// DeleteQuestion godoc
// @Summary      Delete a question
// @Description  Removes a question from the pool.
// @Tags         admin-questions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Question ID"
// @Success      200  {object}  map[string]string "{"message": "Question deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Question not found"
// @Router       /admin/questions/{id} [delete]
func DeleteQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	result := database.DB.Delete(&models.Question{}, id)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}
