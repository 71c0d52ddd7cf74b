package router

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"MCQ-Quiz-Generator/internal/api"
)

func SetupRouter(quizHandler *api.QuizHandler, webHandler *api.WebHandler, tmpl *template.Template, allowedOrigins []string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(log), gin.Recovery())
	r.SetHTMLTemplate(tmpl)

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowHeaders = append(config.AllowHeaders, "Content-Type")
	r.Use(cors.New(config))

	r.GET("/", webHandler.IndexHandler)
	r.POST("/generate", webHandler.GenerateHandler)
	r.POST("/submit", webHandler.SubmitHandler)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/health", quizHandler.HealthHandler)
		apiV1.GET("/subjects", quizHandler.SubjectsHandler)
		apiV1.POST("/sessions", quizHandler.CreateSessionHandler)
		apiV1.GET("/sessions/:id", quizHandler.GetSessionHandler)
		apiV1.DELETE("/sessions/:id", quizHandler.DeleteSessionHandler)
		apiV1.POST("/sessions/:id/generate", quizHandler.GenerateHandler)
		apiV1.PUT("/sessions/:id/answers/:index", quizHandler.RecordAnswerHandler)
		apiV1.POST("/sessions/:id/submit", quizHandler.SubmitHandler)
		apiV1.GET("/sessions/:id/results", quizHandler.ResultsHandler)
	}

	return r
}
