package handler

import (
	"errors"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/dto"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/service"
	"wikiquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz generation HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// Root godoc
// @Summary API overview
// @Description Returns the service name, version and the available endpoints
// @Tags meta
// @Produce json
// @Success 200 {object} dto.RootResponse
// @Router / [get]
func (h *QuizHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dto.RootResponse{
		Name:    "AI Wiki Quiz Generator API",
		Version: "1.0.0",
		Endpoints: []string{
			"/generate_quiz",
			"/history",
			"/quiz/{id}",
			"/preview",
			"/cache/stats",
		},
	})
}

// Preview godoc
// @Summary Preview a Wikipedia article
// @Description Fetches just the article title so a client can validate a URL before generating a quiz
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Article URL"
// @Success 200 {object} dto.PreviewResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /preview [post]
func (h *QuizHandler) Preview(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	if err := h.validator.ValidatePreviewRequest(req.URL); err != nil {
		return badRequest(c, err)
	}

	preview, err := h.service.PreviewTitle(c.UserContext(), req.URL)
	if err != nil {
		logger.Get().Error("Failed to preview article",
			zap.Error(err),
			zap.String("url", req.URL),
		)

		switch {
		case domain.IsDomainErrorWithCode(err, domain.ErrFetchBlocked):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: "Wikipedia blocked the request. Please retry in a minute.",
			})
		case domain.IsDomainErrorWithCode(err, domain.ErrFetchFailed):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: "Failed to fetch article",
			})
		default:
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: "Error: " + err.Error(),
			})
		}
	}

	return c.JSON(preview)
}

// GenerateQuiz godoc
// @Summary Generate a quiz from a Wikipedia article
// @Description Runs the full pipeline for the URL, serving the stored package when one exists
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Article URL"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate_quiz [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	if err := h.validator.ValidateGenerateQuizRequest(req.URL); err != nil {
		return badRequest(c, err)
	}

	quiz, err := h.service.GenerateOrGet(c.UserContext(), req.URL)
	if err != nil {
		logger.Get().Error("Failed to generate quiz",
			zap.Error(err),
			zap.String("url", req.URL),
		)

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			switch domainErr.Code {
			case domain.ErrFetchBlocked:
				return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
					Error: "Wikipedia blocked the request (403/429). Please retry in a minute or try another page.",
				})
			case domain.ErrInsufficientContent:
				return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
					Error: "Could not extract sufficient article text",
				})
			case domain.ErrSynthesisFailed:
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
					Error: "LLM generation failed: " + domainErr.Message,
				})
			case domain.ErrInternal:
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
					Error: domainErr.Message,
				})
			}
		}

		// Remaining domain errors, fetch failures included, carry their own
		// status mapping in the error sink.
		return err
	}

	return c.JSON(quiz)
}

// History godoc
// @Summary List generated quizzes
// @Description Returns every stored quiz record, newest first
// @Tags quiz
// @Produce json
// @Success 200 {array} dto.HistoryItemResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /history [get]
func (h *QuizHandler) History(c *fiber.Ctx) error {
	items, err := h.service.History(c.UserContext())
	if err != nil {
		logger.Get().Error("Failed to list quiz history", zap.Error(err))
		return err
	}

	return c.JSON(items)
}

// GetQuizByID godoc
// @Summary Get a stored quiz
// @Description Returns the full quiz package for a record id
// @Tags quiz
// @Produce json
// @Param id path int true "Quiz record ID"
// @Success 200 {object} dto.QuizDetailResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quiz/{id} [get]
func (h *QuizHandler) GetQuizByID(c *fiber.Ctx) error {
	id, _ := c.Locals("validated_quiz_id").(int64)

	quiz, err := h.service.GetQuizByID(c.UserContext(), id)
	if err != nil {
		logger.Get().Error("Failed to get quiz",
			zap.Error(err),
			zap.Int64("quiz_id", id),
		)

		if domain.IsDomainErrorWithCode(err, domain.ErrQuizNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "Quiz not found",
			})
		}
		return err
	}

	return c.JSON(quiz)
}

// CacheStats godoc
// @Summary Cache statistics
// @Description Reports how many quiz records the store holds
// @Tags cache
// @Produce json
// @Success 200 {object} dto.CacheStatsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /cache/stats [get]
func (h *QuizHandler) CacheStats(c *fiber.Ctx) error {
	stats, err := h.service.CacheStats(c.UserContext())
	if err != nil {
		logger.Get().Error("Failed to read cache stats", zap.Error(err))
		return err
	}

	return c.JSON(stats)
}

// badRequest renders a 400 carrying the validation failure message.
func badRequest(c *fiber.Ctx, err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: domainErr.Message,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: err.Error(),
	})
}
