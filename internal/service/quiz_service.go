package service

//go:generate mockgen -source=quiz_service.go -destination=mocks/generator.go -package=mocks

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"MCQ-Quiz-Generator/internal/model"
	"MCQ-Quiz-Generator/internal/quiz"
	"MCQ-Quiz-Generator/internal/repository"
)

var ErrInvalidState = errors.New("operation not allowed in current session state")

// QuestionGenerator produces a question set for a request.
type QuestionGenerator interface {
	Generate(ctx context.Context, req model.GenerateRequest) ([]model.Question, error)
}

// QuizService drives the generate -> answer -> submit -> score flow for
// sessions held in the repository.
type QuizService struct {
	generator QuestionGenerator
	sessions  *repository.SessionRepository
	log       *zap.Logger
}

func NewQuizService(generator QuestionGenerator, sessions *repository.SessionRepository, log *zap.Logger) *QuizService {
	return &QuizService{
		generator: generator,
		sessions:  sessions,
		log:       log,
	}
}

func (s *QuizService) NewSession() string {
	return s.sessions.Create()
}

func (s *QuizService) HasSession(id string) bool {
	return s.sessions.Exists(id)
}

func (s *QuizService) EndSession(id string) error {
	if !s.sessions.Delete(id) {
		return repository.ErrSessionNotFound
	}
	s.log.Debug("session ended", zap.String("session_id", id))
	return nil
}

func (s *QuizService) ActiveSessions() int {
	return s.sessions.Len()
}

// Generate requests a new question set and, only if that succeeds, restarts
// the session with it. A failed generation leaves the session as it was.
func (s *QuizService) Generate(ctx context.Context, sessionID string, req model.GenerateRequest) (quiz.View, error) {
	if !s.sessions.Exists(sessionID) {
		return quiz.View{}, repository.ErrSessionNotFound
	}

	questions, err := s.generator.Generate(ctx, req)
	if err != nil {
		return quiz.View{}, err
	}

	var view quiz.View
	err = s.sessions.With(sessionID, func(sess *quiz.Session) error {
		sess.Start(questions)
		view = sess.View()
		return nil
	})
	if err != nil {
		return quiz.View{}, err
	}
	s.log.Info("quiz started", zap.String("session_id", sessionID), zap.Int("questions", len(questions)))
	return view, nil
}

func (s *QuizService) RecordAnswer(sessionID string, index int, option string) error {
	return s.sessions.With(sessionID, func(sess *quiz.Session) error {
		if !sess.RecordAnswer(index, option) {
			return errors.Wrapf(ErrInvalidState, "record answer %d in %s session of %d questions", index, sess.State(), sess.Len())
		}
		return nil
	})
}

func (s *QuizService) Submit(sessionID string) (quiz.View, error) {
	var view quiz.View
	err := s.sessions.With(sessionID, func(sess *quiz.Session) error {
		if !sess.Submit() {
			return errors.Wrapf(ErrInvalidState, "submit %s session", sess.State())
		}
		view = sess.View()
		return nil
	})
	if err != nil {
		return quiz.View{}, err
	}
	s.log.Info("quiz submitted",
		zap.String("session_id", sessionID),
		zap.Int("score", *view.Score),
		zap.Int("total", view.Total),
	)
	return view, nil
}

// SubmitAll records every selection in answers and then submits, as one step.
func (s *QuizService) SubmitAll(sessionID string, answers map[int]string) (quiz.View, error) {
	var view quiz.View
	err := s.sessions.With(sessionID, func(sess *quiz.Session) error {
		if sess.State() != quiz.StateActive {
			return errors.Wrapf(ErrInvalidState, "submit %s session", sess.State())
		}
		for index, option := range answers {
			sess.RecordAnswer(index, option)
		}
		sess.Submit()
		view = sess.View()
		return nil
	})
	if err != nil {
		return quiz.View{}, err
	}
	return view, nil
}

type ScoreReport struct {
	Score   int           `json:"score"`
	Total   int           `json:"total"`
	Results []quiz.Result `json:"results"`
}

func (s *QuizService) Results(sessionID string) (ScoreReport, error) {
	var report ScoreReport
	err := s.sessions.With(sessionID, func(sess *quiz.Session) error {
		score, ok := sess.Score()
		if !ok {
			return errors.Wrapf(ErrInvalidState, "score %s session", sess.State())
		}
		results, _ := sess.Results()
		report = ScoreReport{Score: score, Total: sess.Len(), Results: results}
		return nil
	})
	return report, err
}

func (s *QuizService) View(sessionID string) (quiz.View, error) {
	var view quiz.View
	err := s.sessions.With(sessionID, func(sess *quiz.Session) error {
		view = sess.View()
		return nil
	})
	return view, err
}
