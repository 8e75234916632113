package server

import (
	"askly/internal/models"
	"askly/internal/observability"
	"askly/internal/service"

	"github.com/gofiber/fiber/v2"
)

type questionRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// GetQuestions handles GET /api/questions
// @Summary List questions
// @Tags questions
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Question
// @Router /questions [get]
func (s *Server) GetQuestions(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPageSize)
	questions, err := s.questionService.ListQuestions(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	if questions == nil {
		questions = []*models.Question{}
	}
	return c.JSON(questions)
}

// GetQuestion handles GET /api/questions/:id
// @Summary Get a question
// @Tags questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} models.Question
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{id} [get]
func (s *Server) GetQuestion(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	question, err := s.questionService.GetQuestion(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(question)
}

// CreateQuestion handles POST /api/questions
// @Summary Ask a question
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body questionRequest true "Question"
// @Success 201 {object} models.Question
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /questions [post]
func (s *Server) CreateQuestion(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}

	var req questionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	question, err := s.questionService.CreateQuestion(c.UserContext(), service.CreateQuestionInput{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// UpdateQuestion handles PUT /api/questions/:id
// @Summary Edit a question
// @Description Only the author may edit. A missing question is reported as 403 as well.
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Param request body questionRequest true "Question"
// @Success 200 {object} models.Question
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /questions/{id} [put]
func (s *Server) UpdateQuestion(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	var req questionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	question, err := s.questionService.UpdateQuestion(c.UserContext(), service.UpdateQuestionInput{
		UserID:     userID,
		QuestionID: id,
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
	})
	if err != nil {
		if models.IsCode(err, models.CodeNotOwner) {
			observability.OwnershipDenials.WithLabelValues("question").Inc()
		}
		return respondError(c, err)
	}
	return c.JSON(question)
}

// DeleteQuestion handles DELETE /api/questions/:id
// @Summary Delete a question and its answers
// @Tags questions
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /questions/{id} [delete]
func (s *Server) DeleteQuestion(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	err = s.questionService.DeleteQuestion(c.UserContext(), service.DeleteQuestionInput{
		UserID:     userID,
		QuestionID: id,
	})
	if err != nil {
		if models.IsCode(err, models.CodeNotOwner) {
			observability.OwnershipDenials.WithLabelValues("question").Inc()
		}
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
