package server

import (
	"askly/internal/models"
	"askly/internal/observability"
	"askly/internal/service"

	"github.com/gofiber/fiber/v2"
)

type answerRequest struct {
	Content string `json:"content"`
}

// GetAnswers handles GET /api/questions/:id/answers
// @Summary List answers to a question
// @Tags answers
// @Produce json
// @Param id path string true "Question ID"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Answer
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/answers [get]
func (s *Server) GetAnswers(c *fiber.Ctx) error {
	questionID, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, defaultPageSize)
	answers, err := s.answerService.ListAnswers(c.UserContext(), questionID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	if answers == nil {
		answers = []*models.Answer{}
	}
	return c.JSON(answers)
}

// CreateAnswer handles POST /api/questions/:id/answers
// @Summary Answer a question
// @Tags answers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Param request body answerRequest true "Answer"
// @Success 201 {object} models.Answer
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id}/answers [post]
func (s *Server) CreateAnswer(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	questionID, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	answer, err := s.answerService.CreateAnswer(c.UserContext(), service.CreateAnswerInput{
		UserID:     userID,
		QuestionID: questionID,
		Content:    req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(answer)
}

// DeleteAnswer handles DELETE /api/answers/:id
// @Summary Delete an answer
// @Tags answers
// @Security ApiKeyAuth
// @Param id path string true "Answer ID"
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /answers/{id} [delete]
func (s *Server) DeleteAnswer(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.answerService.DeleteAnswer(c.UserContext(), service.DeleteAnswerInput{
		UserID:   userID,
		AnswerID: id,
	}); err != nil {
		if models.IsCode(err, models.CodeNotOwner) {
			observability.OwnershipDenials.WithLabelValues("answer").Inc()
		}
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
