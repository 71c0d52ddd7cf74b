package quiz

import (
	"slices"

	"MCQ-Quiz-Generator/internal/model"
)

type State int

const (
	StateEmpty State = iota
	StateActive
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateSubmitted:
		return "submitted"
	default:
		return "empty"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session holds one generated question set and the answers collected for it.
// The zero value is an empty session. Calls that are not valid in the current
// state leave the session unchanged and report false.
type Session struct {
	questions []model.Question
	answers   map[int]string
	state     State
}

// Start installs a fresh question set, discarding any previous one.
func (s *Session) Start(questions []model.Question) {
	s.questions = cloneQuestions(questions)
	s.answers = make(map[int]string, len(questions))
	s.state = StateActive
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Len() int {
	return len(s.questions)
}

// RecordAnswer stores option as the selection for question index, replacing
// any earlier selection.
func (s *Session) RecordAnswer(index int, option string) bool {
	if s.state != StateActive || index < 0 || index >= len(s.questions) {
		return false
	}
	s.answers[index] = option
	return true
}

func (s *Session) Submit() bool {
	if s.state != StateActive {
		return false
	}
	s.state = StateSubmitted
	return true
}

// Score counts answers equal to the question's correct answer. Unanswered
// questions never match.
func (s *Session) Score() (int, bool) {
	if s.state != StateSubmitted {
		return 0, false
	}
	score := 0
	for i, q := range s.questions {
		if selected, ok := s.answers[i]; ok && selected == q.CorrectAnswer {
			score++
		}
	}
	return score, true
}

type Result struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	Selected      string `json:"selected,omitempty"`
	Answered      bool   `json:"answered"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
}

func (s *Session) Results() ([]Result, bool) {
	if s.state != StateSubmitted {
		return nil, false
	}
	results := make([]Result, len(s.questions))
	for i, q := range s.questions {
		selected, answered := s.answers[i]
		results[i] = Result{
			Index:         i,
			Question:      q.Text,
			Selected:      selected,
			Answered:      answered,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       answered && selected == q.CorrectAnswer,
		}
	}
	return results, true
}

type QuestionView struct {
	Index         int      `json:"index"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	Selected      string   `json:"selected,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

// View is a detached copy of a session suitable for rendering.
type View struct {
	State     State          `json:"state"`
	Questions []QuestionView `json:"questions"`
	Answered  int            `json:"answered"`
	Score     *int           `json:"score,omitempty"`
	Total     int            `json:"total"`
}

// View snapshots the session. Correct answers are only included once the
// session has been submitted.
func (s *Session) View() View {
	v := View{
		State:     s.state,
		Questions: make([]QuestionView, len(s.questions)),
		Answered:  len(s.answers),
		Total:     len(s.questions),
	}
	for i, q := range s.questions {
		qv := QuestionView{
			Index:    i,
			Text:     q.Text,
			Options:  slices.Clone(q.Options),
			Selected: s.answers[i],
		}
		if s.state == StateSubmitted {
			qv.CorrectAnswer = q.CorrectAnswer
		}
		v.Questions[i] = qv
	}
	if score, ok := s.Score(); ok {
		v.Score = &score
	}
	return v
}

func cloneQuestions(questions []model.Question) []model.Question {
	out := make([]model.Question, len(questions))
	for i, q := range questions {
		q.Options = slices.Clone(q.Options)
		out[i] = q
	}
	return out
}
