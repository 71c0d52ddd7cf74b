package quiz

import (
	"maps"
	"testing"

	"MCQ-Quiz-Generator/internal/model"
)

func sampleQuestions() []model.Question {
	return []model.Question{
		{Text: "Q1", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "A"},
		{Text: "Q2", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "B"},
		{Text: "Q3", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "C"},
	}
}

func answersOf(s *Session) map[int]string {
	return maps.Clone(s.answers)
}

func TestZeroSessionIsEmpty(t *testing.T) {
	var s Session
	if s.State() != StateEmpty {
		t.Fatalf("expected empty state, got %s", s.State())
	}
	if s.RecordAnswer(0, "A") {
		t.Fatalf("RecordAnswer should be rejected in empty state")
	}
	if s.Submit() {
		t.Fatalf("Submit should be rejected in empty state")
	}
	if _, ok := s.Score(); ok {
		t.Fatalf("Score should be unavailable in empty state")
	}
}

func TestScoreCountsOnlyMatchingAnswers(t *testing.T) {
	var s Session
	s.Start(sampleQuestions())
	s.RecordAnswer(0, "A") // correct
	s.RecordAnswer(1, "C") // incorrect
	// question 2 left unanswered

	if _, ok := s.Score(); ok {
		t.Fatalf("Score should be unavailable before submit")
	}
	if !s.Submit() {
		t.Fatalf("Submit returned false in active state")
	}

	score, ok := s.Score()
	if !ok || score != 1 {
		t.Fatalf("Score() = (%d, %v), want (1, true)", score, ok)
	}
}

func TestScoreTwoCorrectOneUnanswered(t *testing.T) {
	var s Session
	s.Start(sampleQuestions())
	s.RecordAnswer(0, "A")
	s.RecordAnswer(1, "B")
	s.Submit()

	if score, _ := s.Score(); score != 2 {
		t.Fatalf("expected score 2, got %d", score)
	}
}

func TestRecordAnswerKeepsLatestSelection(t *testing.T) {
	var s Session
	s.Start(sampleQuestions())
	s.RecordAnswer(1, "A")
	s.RecordAnswer(1, "D")

	if got := answersOf(&s)[1]; got != "D" {
		t.Fatalf("expected latest selection D, got %q", got)
	}
}

func TestSubmitFreezesAnswers(t *testing.T) {
	var s Session
	s.Start(sampleQuestions())
	s.RecordAnswer(0, "B")
	s.Submit()

	if s.RecordAnswer(0, "A") {
		t.Fatalf("RecordAnswer should be rejected after submit")
	}
	if s.RecordAnswer(2, "C") {
		t.Fatalf("RecordAnswer should be rejected after submit")
	}
	answers := answersOf(&s)
	if len(answers) != 1 || answers[0] != "B" {
		t.Fatalf("answers changed after submit: %v", answers)
	}
	if s.Submit() {
		t.Fatalf("second Submit should be a no-op")
	}
	if s.State() != StateSubmitted {
		t.Fatalf("expected submitted state, got %s", s.State())
	}
}

func TestRecordAnswerRejectsOutOfRangeIndex(t *testing.T) {
	var s Session
	s.Start(sampleQuestions())

	if s.RecordAnswer(-1, "A") || s.RecordAnswer(3, "A") {
		t.Fatalf("out-of-range index should be rejected")
	}
	if len(answersOf(&s)) != 0 {
		t.Fatalf("expected no answers, got %v", answersOf(&s))
	}
}

func TestStartDiscardsPreviousSession(t *testing.T) {
	var s Session
	s.Start(sampleQuestions())
	s.RecordAnswer(0, "A")
	s.Submit()

	s.Start(sampleQuestions()[:1])
	if s.State() != StateActive {
		t.Fatalf("expected active state after restart, got %s", s.State())
	}
	if s.Len() != 1 || len(answersOf(&s)) != 0 {
		t.Fatalf("restart did not reset session: len=%d answers=%v", s.Len(), answersOf(&s))
	}
}

func TestStartCopiesQuestions(t *testing.T) {
	questions := sampleQuestions()
	var s Session
	s.Start(questions)

	questions[0].Options[0] = "mutated"
	if s.View().Questions[0].Options[0] != "A" {
		t.Fatalf("session shares option storage with caller")
	}
}

func TestResults(t *testing.T) {
	var s Session
	s.Start(sampleQuestions())
	s.RecordAnswer(0, "A")
	s.RecordAnswer(1, "D")

	if _, ok := s.Results(); ok {
		t.Fatalf("Results should be unavailable before submit")
	}
	s.Submit()

	results, ok := s.Results()
	if !ok || len(results) != 3 {
		t.Fatalf("Results() = (%d items, %v)", len(results), ok)
	}
	if !results[0].Correct || results[1].Correct || results[2].Correct {
		t.Fatalf("unexpected correctness: %+v", results)
	}
	if results[2].Answered || results[2].CorrectAnswer != "C" {
		t.Fatalf("unanswered result = %+v", results[2])
	}
}

func TestViewHidesAnswersUntilSubmitted(t *testing.T) {
	var s Session
	s.Start(sampleQuestions())
	s.RecordAnswer(2, "C")

	v := s.View()
	if v.State != StateActive || v.Score != nil || v.Answered != 1 || v.Total != 3 {
		t.Fatalf("unexpected active view: %+v", v)
	}
	for _, q := range v.Questions {
		if q.CorrectAnswer != "" {
			t.Fatalf("correct answer leaked before submit: %+v", q)
		}
	}
	if v.Questions[2].Selected != "C" {
		t.Fatalf("expected selection C, got %q", v.Questions[2].Selected)
	}

	s.Submit()
	v = s.View()
	if v.Score == nil || *v.Score != 1 {
		t.Fatalf("expected score 1 in submitted view, got %v", v.Score)
	}
	if v.Questions[0].CorrectAnswer != "A" {
		t.Fatalf("expected correct answer revealed after submit")
	}
}
