package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"MCQ-Quiz-Generator/internal/catalog"
	"MCQ-Quiz-Generator/internal/client"
	"MCQ-Quiz-Generator/internal/model"
)

const (
	MinQuestions = 1
	MaxQuestions = 50

	systemPrompt = "You generate exam-quality MCQs."
)

var (
	ErrMissingCredential = errors.New("missing API credential")
	ErrTransport         = errors.New("generation failed: transport failure")
	ErrMalformedResponse = errors.New("generation failed: malformed response")
	ErrInvalidRequest    = errors.New("invalid generation request")
)

// Completer sends a chat completion and returns the assistant text.
type Completer interface {
	Complete(ctx context.Context, payload model.AIChatRequest) (string, error)
}

type QuestionService struct {
	completer   Completer
	catalog     *catalog.Catalog
	model       string
	temperature float64
	log         *zap.Logger
}

func NewQuestionService(completer Completer, cat *catalog.Catalog, modelName string, temperature float64, log *zap.Logger) *QuestionService {
	return &QuestionService{
		completer:   completer,
		catalog:     cat,
		model:       modelName,
		temperature: temperature,
		log:         log,
	}
}

// Generate asks the model for req.Count questions and parses the reply.
// It makes exactly one outbound call and never retries.
func (s *QuestionService) Generate(ctx context.Context, req model.GenerateRequest) ([]model.Question, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	payload := model.AIChatRequest{
		Model: s.model,
		Messages: []model.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(req.Subject, req.Topic, req.Difficulty, req.Count)},
		},
		Temperature: s.temperature,
	}

	log := s.log.With(
		zap.String("subject", req.Subject),
		zap.String("topic", req.Topic),
		zap.String("difficulty", req.Difficulty),
		zap.Int("count", req.Count),
	)
	log.Info("requesting questions")

	content, err := s.completer.Complete(ctx, payload)
	if err != nil {
		if errors.Is(err, client.ErrMissingAPIKey) {
			log.Error("generation attempted without credential")
			return nil, errors.Wrap(ErrMissingCredential, err.Error())
		}
		log.Error("question request failed", zap.Error(err))
		return nil, errors.Wrap(ErrTransport, err.Error())
	}

	questions, err := ParseQuestions(content)
	if err != nil {
		log.Warn("could not parse model output", zap.Error(err), zap.String("content", content))
		return nil, err
	}
	if len(questions) != req.Count {
		log.Warn("model returned a different number of questions", zap.Int("received", len(questions)))
	}

	log.Info("questions generated", zap.Int("received", len(questions)))
	return questions, nil
}

func (s *QuestionService) validateRequest(req model.GenerateRequest) error {
	if err := s.catalog.Validate(req.Subject, req.Topic); err != nil {
		return errors.Wrap(ErrInvalidRequest, err.Error())
	}
	if _, err := catalog.ParseDifficulty(req.Difficulty); err != nil {
		return errors.Wrap(ErrInvalidRequest, err.Error())
	}
	if req.Count < MinQuestions || req.Count > MaxQuestions {
		return errors.Wrapf(ErrInvalidRequest, "count must be between %d and %d, got %d", MinQuestions, MaxQuestions, req.Count)
	}
	return nil
}

// BuildPrompt renders the user instruction sent to the model.
func BuildPrompt(subject, topic, difficulty string, count int) string {
	return fmt.Sprintf(`
You are an expert question paper setter.

Generate %d multiple-choice questions for:
Subject: %s
Topic: %s
Difficulty: %s

Rules:
- Generate exactly %d questions
- Each question must have 4 options
- Only one correct answer, copied verbatim from the options
- Return ONLY valid JSON (no markdown)

JSON format:
[
  {
    "question": "",
    "options": ["", "", "", ""],
    "answer": ""
  }
]
`, count, subject, topic, difficulty, count)
}

// CleanJSON strips surrounding whitespace, markdown code fences and trailing
// separators from a model reply. Applying it twice gives the same result.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.ReplaceAll(text, "```json", "")
		text = strings.ReplaceAll(text, "```", "")
		text = strings.TrimSpace(text)
	}
	return strings.TrimRightFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

var strictJSON = sonic.Config{DisallowUnknownFields: true, CaseSensitive: true}.Froze()

// checkDuplicateFields fails when a record repeats a field name. The decoder
// keeps the last value of a repeated key, so this runs on the raw tree.
func checkDuplicateFields(cleaned string) error {
	root, err := sonic.GetFromString(cleaned)
	if err != nil {
		return err
	}
	var dup error
	err = root.ForEach(func(record ast.Sequence, node *ast.Node) bool {
		seen := make(map[string]struct{}, 3)
		if err := node.ForEach(func(field ast.Sequence, _ *ast.Node) bool {
			if field.Key == nil {
				return true
			}
			if _, ok := seen[*field.Key]; ok {
				dup = errors.Errorf("question %d: duplicate field %q", record.Index+1, *field.Key)
				return false
			}
			seen[*field.Key] = struct{}{}
			return true
		}); err != nil {
			dup = err
		}
		return dup == nil
	})
	if err != nil {
		return err
	}
	return dup
}

var questionValidator = newQuestionValidator()

func newQuestionValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		q := sl.Current().Interface().(model.Question)
		if q.CorrectAnswer != "" && !slices.Contains(q.Options, q.CorrectAnswer) {
			sl.ReportError(q.CorrectAnswer, "CorrectAnswer", "answer", "in_options", "")
		}
	}, model.Question{})
	return v
}

// ParseQuestions cleans raw model output and decodes it into questions.
// Unknown, repeated or miscased fields, missing fields, option sets that are
// not four unique entries and answers absent from the options are all
// rejected.
func ParseQuestions(raw string) ([]model.Question, error) {
	cleaned := CleanJSON(raw)

	var questions []model.Question
	if err := strictJSON.UnmarshalFromString(cleaned, &questions); err != nil {
		return nil, errors.Wrap(ErrMalformedResponse, err.Error())
	}
	if len(questions) == 0 {
		return nil, errors.Wrap(ErrMalformedResponse, "no questions in response")
	}
	if err := checkDuplicateFields(cleaned); err != nil {
		return nil, errors.Wrap(ErrMalformedResponse, err.Error())
	}
	for i, q := range questions {
		if err := questionValidator.Struct(q); err != nil {
			return nil, errors.Wrapf(ErrMalformedResponse, "question %d: %v", i+1, err)
		}
	}
	return questions, nil
}
