package server

import (
	"askly/internal/models"
	"askly/internal/observability"
	"askly/internal/service"

	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// authOutcome labels AuthAttempts by error code.
func authOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case models.IsCode(err, models.CodeInvalidCredential):
		return "invalid_credential"
	case models.IsCode(err, models.CodeValidation):
		return "invalid_input"
	case models.IsCode(err, models.CodeConflict):
		return "conflict"
	default:
		return "error"
	}
}

// Signup handles POST /api/signup
// @Summary User signup
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body signupRequest true "Signup request"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Signup(c.UserContext(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	observability.AuthAttempts.WithLabelValues("signup", authOutcome(err)).Inc()
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Signin handles POST /api/signin
// @Summary User signin
// @Description Authenticate with email and password and receive a session token.
// @Description Send the token verbatim in the Authorization header, without a scheme prefix.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body signinRequest true "Credentials"
// @Success 200 {object} signinResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /signin [post]
func (s *Server) Signin(c *fiber.Ctx) error {
	var req signinRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	token, user, err := s.authService.Signin(c.UserContext(), service.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	observability.AuthAttempts.WithLabelValues("signin", authOutcome(err)).Inc()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(signinResponse{Token: token, User: user})
}
