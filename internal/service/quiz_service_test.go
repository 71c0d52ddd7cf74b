package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"MCQ-Quiz-Generator/internal/model"
	"MCQ-Quiz-Generator/internal/quiz"
	"MCQ-Quiz-Generator/internal/repository"
	"MCQ-Quiz-Generator/internal/service/mocks"
)

func threeQuestions() []model.Question {
	return []model.Question{
		{Text: "Q1", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "A"},
		{Text: "Q2", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "B"},
		{Text: "Q3", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "C"},
	}
}

func newTestQuizService(t *testing.T) (*QuizService, *mocks.MockQuestionGenerator) {
	t.Helper()
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockQuestionGenerator(ctrl)
	return NewQuizService(gen, repository.NewSessionRepository(zap.NewNop()), zap.NewNop()), gen
}

func TestQuizFlow(t *testing.T) {
	svc, gen := newTestQuizService(t)
	id := svc.NewSession()
	req := validRequest()
	req.Count = 3

	gen.EXPECT().Generate(gomock.Any(), req).Return(threeQuestions(), nil)

	view, err := svc.Generate(context.Background(), id, req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if view.State != quiz.StateActive || view.Total != 3 {
		t.Fatalf("unexpected view after generate: %+v", view)
	}

	for index, option := range map[int]string{0: "A", 1: "D"} {
		if err := svc.RecordAnswer(id, index, option); err != nil {
			t.Fatalf("RecordAnswer(%d): %v", index, err)
		}
	}

	if _, err := svc.Results(id); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState before submit, got %v", err)
	}

	view, err = svc.Submit(id)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if view.Score == nil || *view.Score != 1 {
		t.Fatalf("expected score 1, got %v", view.Score)
	}

	report, err := svc.Results(id)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if report.Score != 1 || report.Total != 3 || len(report.Results) != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestGenerateFailureLeavesSessionUntouched(t *testing.T) {
	svc, gen := newTestQuizService(t)
	id := svc.NewSession()

	gomock.InOrder(
		gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(threeQuestions(), nil),
		gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, ErrMalformedResponse),
	)

	if _, err := svc.Generate(context.Background(), id, validRequest()); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if err := svc.RecordAnswer(id, 1, "B"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if _, err := svc.Submit(id); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := svc.Generate(context.Background(), id, validRequest()); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}

	view, err := svc.View(id)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if view.State != quiz.StateSubmitted || view.Total != 3 || view.Questions[1].Selected != "B" {
		t.Fatalf("session changed after failed generation: %+v", view)
	}
}

func TestGenerateUnknownSessionSkipsGenerator(t *testing.T) {
	svc, _ := newTestQuizService(t)

	if _, err := svc.Generate(context.Background(), "missing", validRequest()); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRegenerateResetsSubmittedSession(t *testing.T) {
	svc, gen := newTestQuizService(t)
	id := svc.NewSession()
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(threeQuestions(), nil).Times(2)

	_, _ = svc.Generate(context.Background(), id, validRequest())
	_ = svc.RecordAnswer(id, 0, "A")
	_, _ = svc.Submit(id)

	view, err := svc.Generate(context.Background(), id, validRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if view.State != quiz.StateActive || view.Answered != 0 || view.Score != nil {
		t.Fatalf("expected fresh active session, got %+v", view)
	}
}

func TestInvalidStateTransitions(t *testing.T) {
	svc, gen := newTestQuizService(t)
	id := svc.NewSession()

	if err := svc.RecordAnswer(id, 0, "A"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("RecordAnswer on empty session: %v", err)
	}
	if _, err := svc.Submit(id); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Submit on empty session: %v", err)
	}

	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(threeQuestions(), nil)
	_, _ = svc.Generate(context.Background(), id, validRequest())

	if err := svc.RecordAnswer(id, 7, "A"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("RecordAnswer out of range: %v", err)
	}
	_ = svc.RecordAnswer(id, 0, "C")
	_, _ = svc.Submit(id)

	if _, err := svc.Submit(id); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second Submit: %v", err)
	}
	if err := svc.RecordAnswer(id, 0, "A"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("RecordAnswer after submit: %v", err)
	}
	view, _ := svc.View(id)
	if view.Questions[0].Selected != "C" {
		t.Fatalf("answer changed after submit: %q", view.Questions[0].Selected)
	}
}

func TestSubmitAll(t *testing.T) {
	svc, gen := newTestQuizService(t)
	id := svc.NewSession()
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(threeQuestions(), nil)
	_, _ = svc.Generate(context.Background(), id, validRequest())

	view, err := svc.SubmitAll(id, map[int]string{0: "A", 1: "B", 9: "A"})
	if err != nil {
		t.Fatalf("SubmitAll: %v", err)
	}
	if view.State != quiz.StateSubmitted || *view.Score != 2 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if _, err := svc.SubmitAll(id, nil); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on resubmit, got %v", err)
	}
}

func TestEndSession(t *testing.T) {
	svc, _ := newTestQuizService(t)
	id := svc.NewSession()
	svc.NewSession()

	if svc.ActiveSessions() != 2 {
		t.Fatalf("expected 2 sessions, got %d", svc.ActiveSessions())
	}
	if err := svc.EndSession(id); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if svc.HasSession(id) || svc.ActiveSessions() != 1 {
		t.Fatalf("session survived EndSession")
	}
	if err := svc.EndSession(id); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
