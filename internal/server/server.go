package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/threadline/threadline-backend/internal/classifier"
	"github.com/threadline/threadline-backend/internal/config"
	"github.com/threadline/threadline-backend/internal/handler"
	appmw "github.com/threadline/threadline-backend/internal/middleware"
	"github.com/threadline/threadline-backend/internal/repository"
	"github.com/threadline/threadline-backend/internal/service"
)

type Server struct {
	e       *echo.Echo
	repos   []interface{ SetDB(*gorm.DB) }
	streaks service.StreakService
	sha     string
	build   string
}

func New(db *gorm.DB, cfg *config.Config, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			return strings.HasSuffix(u.Hostname(), "vercel.app"), nil
		},
	}))

	eventRepo := repository.NewScoreEventRepository(db)
	postRepo := repository.NewPostRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	ancestryRepo := repository.NewReplyAncestryRepository(db)
	classificationRepo := repository.NewReplyClassificationRepository(db)
	statRepo := repository.NewModerationStatRepository(db)
	streakRepo := repository.NewLoginStreakRepository(db)
	reportRepo := repository.NewReportRepository(db)

	var cls classifier.Classifier
	if cfg != nil && cfg.Classifier == "gemini" {
		cls = classifier.NewGeminiClassifier(cfg.GeminiModel)
	} else {
		cls = classifier.NewRandomClassifier()
	}

	scoreSvc := service.NewScoreService(eventRepo)
	contentSvc := service.NewContentService(eventRepo, postRepo, replyRepo, reportRepo)
	voteSvc := service.NewVoteService(eventRepo, postRepo, replyRepo, ancestryRepo, classificationRepo, cls)
	modSvc := service.NewModerationService(eventRepo, statRepo, postRepo, reportRepo)
	streakSvc := service.NewStreakService(eventRepo, streakRepo)
	adminSvc := service.NewAdminService(eventRepo)

	scoreHandler := handler.NewScoreHandler(scoreSvc)
	contentHandler := handler.NewContentHandler(contentSvc)
	voteHandler := handler.NewVoteHandler(voteSvc)
	modHandler := handler.NewModerationHandler(modSvc)
	streakHandler := handler.NewStreakHandler(streakSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)

	var requireAuth, requireAdmin []echo.MiddlewareFunc
	authMw, err := appmw.NewAuthMiddleware(context.Background())
	if err != nil || authMw == nil {
		log.WithError(err).Warn("firebase auth unavailable, API routes are unauthenticated")
	} else {
		requireAuth = []echo.MiddlewareFunc{authMw.RequireAuth}
		requireAdmin = []echo.MiddlewareFunc{authMw.RequireAuth, authMw.RequireAdmin}
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")
	api.POST("/posts", contentHandler.CreatePost, requireAuth...)
	api.POST("/posts/:id/replies", contentHandler.CreateReply, requireAuth...)
	api.POST("/posts/:id/report", contentHandler.ReportPost, requireAuth...)
	api.POST("/votes", voteHandler.Apply, requireAuth...)
	api.POST("/logins", streakHandler.RecordLogin, requireAuth...)
	api.POST("/moderation/approve", modHandler.Approve, requireAdmin...)
	api.POST("/moderation/reverse", modHandler.Reverse, requireAdmin...)
	api.POST("/moderation/posts/:id/resolve", modHandler.ResolveReport, requireAdmin...)
	api.POST("/admin/adjustments", adminHandler.Adjust, requireAdmin...)
	api.GET("/users/:uid/score", scoreHandler.GetTotal)
	api.GET("/users/:uid/score/daily", scoreHandler.DailyStats)
	api.GET("/leaderboard", scoreHandler.Leaderboard)

	repos := []interface{ SetDB(*gorm.DB) }{
		eventRepo, postRepo, replyRepo, ancestryRepo,
		classificationRepo, statRepo, streakRepo, reportRepo,
	}
	return &Server{e: e, repos: repos, streaks: streakSvc, sha: sha, build: buildTime}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) StreakService() service.StreakService {
	return s.streaks
}

func (s *Server) SetDB(db *gorm.DB) {
	for _, repo := range s.repos {
		repo.SetDB(db)
	}
}
