package model

// Question is one multiple-choice item as returned by the model.
type Question struct {
	Text          string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,unique,dive,required"`
	CorrectAnswer string   `json:"answer" validate:"required"`
}

type GenerateRequest struct {
	Subject    string `json:"subject" form:"subject" binding:"required"`
	Topic      string `json:"topic" form:"topic" binding:"required"`
	Difficulty string `json:"difficulty" form:"difficulty" binding:"required,oneof=Easy Medium Hard"`
	Count      int    `json:"count" form:"count" binding:"required,min=1,max=50"`
}

type AnswerRequest struct {
	Option string `json:"option" binding:"required"`
}

type AIChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AIChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type AIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
