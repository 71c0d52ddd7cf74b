package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"MCQ-Quiz-Generator/internal/catalog"
	"MCQ-Quiz-Generator/internal/model"
	"MCQ-Quiz-Generator/internal/repository"
	"MCQ-Quiz-Generator/internal/service"
)

type QuizHandler struct {
	quizService *service.QuizService
	catalog     *catalog.Catalog
	log         *zap.Logger
}

func NewQuizHandler(quizService *service.QuizService, cat *catalog.Catalog, log *zap.Logger) *QuizHandler {
	return &QuizHandler{quizService: quizService, catalog: cat, log: log}
}

// statusFor maps service errors to HTTP status codes and user-facing messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid quiz settings"
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict, "action not allowed in the current quiz state"
	case errors.Is(err, service.ErrMissingCredential):
		return http.StatusInternalServerError, "the question service is not configured with an API key"
	case errors.Is(err, service.ErrMalformedResponse):
		return http.StatusBadGateway, "the model returned questions in an unexpected format"
	case errors.Is(err, service.ErrTransport):
		return http.StatusBadGateway, "could not reach the question service"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (h *QuizHandler) handleServiceError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, model.ErrorResponse{Error: msg, Details: err.Error()})
}

func (h *QuizHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP", "sessions": h.quizService.ActiveSessions()})
}

func (h *QuizHandler) SubjectsHandler(c *gin.Context) {
	difficulties := make([]string, len(catalog.Difficulties))
	for i, d := range catalog.Difficulties {
		difficulties[i] = string(d)
	}
	c.JSON(http.StatusOK, gin.H{
		"subjects":      h.catalog.Subjects(),
		"difficulties":  difficulties,
		"min_questions": service.MinQuestions,
		"max_questions": service.MaxQuestions,
	})
}

func (h *QuizHandler) CreateSessionHandler(c *gin.Context) {
	id := h.quizService.NewSession()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *QuizHandler) GetSessionHandler(c *gin.Context) {
	view, err := h.quizService.View(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *QuizHandler) DeleteSessionHandler(c *gin.Context) {
	if err := h.quizService.EndSession(c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *QuizHandler) GenerateHandler(c *gin.Context) {
	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	view, err := h.quizService.Generate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *QuizHandler) RecordAnswerHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "question index must be an integer"})
		return
	}
	var req model.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	if err := h.quizService.RecordAnswer(c.Param("id"), index, req.Option); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *QuizHandler) SubmitHandler(c *gin.Context) {
	view, err := h.quizService.Submit(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *QuizHandler) ResultsHandler(c *gin.Context) {
	report, err := h.quizService.Results(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
