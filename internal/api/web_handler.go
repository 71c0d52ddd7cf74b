package api

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"MCQ-Quiz-Generator/internal/catalog"
	"MCQ-Quiz-Generator/internal/model"
	"MCQ-Quiz-Generator/internal/quiz"
	"MCQ-Quiz-Generator/internal/service"
)

const (
	SessionCookie        = "quiz_session"
	defaultQuestionCount = 5
	sessionCookieMaxAge  = 24 * 60 * 60
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"topicKey": func(subject, topic int) string {
			return fmt.Sprintf("%d.%d", subject, topic)
		},
	}).ParseFS(templateFS, "templates/*.html")
}

type formState struct {
	Selection  string
	Difficulty string
	Count      int
}

type pageData struct {
	Subjects     []catalog.Subject
	Difficulties []catalog.Difficulty
	MinQuestions int
	MaxQuestions int
	Form         formState
	View         quiz.View
	Report       *service.ScoreReport
	Error        string
}

// WebHandler serves the HTML quiz. The session ID travels in a cookie.
type WebHandler struct {
	quizService  *service.QuizService
	catalog      *catalog.Catalog
	secureCookie bool
	log          *zap.Logger
}

func NewWebHandler(quizService *service.QuizService, cat *catalog.Catalog, secureCookie bool, log *zap.Logger) *WebHandler {
	return &WebHandler{quizService: quizService, catalog: cat, secureCookie: secureCookie, log: log}
}

// sessionID returns the caller's session, creating one if the cookie is
// missing or refers to an expired session.
func (h *WebHandler) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(SessionCookie); err == nil && h.quizService.HasSession(id) {
		return id
	}
	id := h.quizService.NewSession()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, sessionCookieMaxAge, "/", "", h.secureCookie, true)
	return id
}

func (h *WebHandler) defaultForm() formState {
	return formState{
		Selection:  "0.0",
		Difficulty: string(catalog.Easy),
		Count:      defaultQuestionCount,
	}
}

func (h *WebHandler) render(c *gin.Context, status int, sessionID string, form formState, errMsg string) {
	data := pageData{
		Subjects:     h.catalog.Subjects(),
		Difficulties: catalog.Difficulties,
		MinQuestions: service.MinQuestions,
		MaxQuestions: service.MaxQuestions,
		Form:         form,
		Error:        errMsg,
	}
	if view, err := h.quizService.View(sessionID); err == nil {
		data.View = view
		if view.State == quiz.StateSubmitted {
			if report, err := h.quizService.Results(sessionID); err == nil {
				data.Report = &report
			}
		}
	}
	c.HTML(status, "index.html", data)
}

func (h *WebHandler) IndexHandler(c *gin.Context) {
	id := h.sessionID(c)
	h.render(c, http.StatusOK, id, h.defaultForm(), "")
}

// resolveSelection maps a "subject.topic" index pair from the form back to names.
func (h *WebHandler) resolveSelection(selection string) (string, string, bool) {
	subjectPart, topicPart, ok := strings.Cut(selection, ".")
	if !ok {
		return "", "", false
	}
	si, err1 := strconv.Atoi(subjectPart)
	ti, err2 := strconv.Atoi(topicPart)
	subjects := h.catalog.Subjects()
	if err1 != nil || err2 != nil || si < 0 || si >= len(subjects) || ti < 0 || ti >= len(subjects[si].Topics) {
		return "", "", false
	}
	return subjects[si].Name, subjects[si].Topics[ti], true
}

func (h *WebHandler) GenerateHandler(c *gin.Context) {
	id := h.sessionID(c)
	count, _ := strconv.Atoi(c.PostForm("count"))
	form := formState{
		Selection:  c.PostForm("selection"),
		Difficulty: c.PostForm("difficulty"),
		Count:      count,
	}

	subject, topic, ok := h.resolveSelection(form.Selection)
	if !ok {
		h.render(c, http.StatusBadRequest, id, h.defaultForm(), "Please choose a subject and topic.")
		return
	}
	req := model.GenerateRequest{
		Subject:    subject,
		Topic:      topic,
		Difficulty: form.Difficulty,
		Count:      form.Count,
	}

	if _, err := h.quizService.Generate(c.Request.Context(), id, req); err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("quiz generation failed", zap.String("session_id", id), zap.Error(err))
		}
		h.render(c, status, id, form, "Quiz generation failed: "+msg+".")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *WebHandler) SubmitHandler(c *gin.Context) {
	id := h.sessionID(c)
	view, err := h.quizService.View(id)
	if err != nil {
		h.render(c, http.StatusNotFound, id, h.defaultForm(), "Your session has expired. Generate a new quiz.")
		return
	}

	answers := make(map[int]string, view.Total)
	for i := 0; i < view.Total; i++ {
		if option, ok := c.GetPostForm("q" + strconv.Itoa(i)); ok {
			answers[i] = option
		}
	}

	if _, err := h.quizService.SubmitAll(id, answers); err != nil {
		status, msg := statusFor(err)
		h.render(c, status, id, h.defaultForm(), "Could not submit: "+msg+".")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
