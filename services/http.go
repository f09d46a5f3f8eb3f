package services

import (
	"fmt"
	"os"
	"strconv"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	_ "github.com/stillframe-app/stillframe_api/docs"
	"github.com/stillframe-app/stillframe_api/services/handlers"
	"github.com/stillframe-app/stillframe_api/shared"
)

type HttpService struct {
	appContext.DefaultService

	authSvc      *AuthService
	challengeSvc *ChallengeService
	adminSvc     *AdminService
	rateLimitSvc *RateLimitService
	monitorSvc   *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *appContext.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.challengeSvc = svc.Service(CHALLENGE_SVC).(*ChallengeService)
	svc.adminSvc = svc.Service(ADMIN_SVC).(*AdminService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitorSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	svc.server = fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: svc.handleError,
	})

	svc.server.Use(recover.New())
	svc.server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	svc.server.Use(svc.monitorSvc.HTTPMetrics())

	svc.server.Get("/ping", svc.ping)
	svc.server.Get("/swagger/*", swagger.HandlerDefault)

	authHandler := handlers.NewAuthHandler(svc.authSvc)
	challengeHandler := handlers.NewChallengeHandler(svc.challengeSvc)
	adminHandler := handlers.NewAdminHandler(svc.adminSvc)

	v1 := svc.server.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	auth := v1.Group("/auth")
	auth.Post("/register", svc.rateLimitSvc.Limit("register"), authHandler.Register)
	auth.Post("/login", svc.rateLimitSvc.Limit("login"), authHandler.Login)
	auth.Post("/refresh", svc.rateLimitSvc.Limit("login"), authHandler.RefreshToken)

	challenge := v1.Group("/challenge", svc.authSvc.RequiredAuth())
	challenge.Get("/today", svc.rateLimitSvc.Limit("read"), challengeHandler.Today)
	challenge.Post("/guess", svc.rateLimitSvc.Limit("guess"), challengeHandler.SubmitGuess)
	challenge.Post("/reveal", svc.rateLimitSvc.Limit("guess"), challengeHandler.RevealImage)
	challenge.Get("/results", svc.rateLimitSvc.Limit("read"), challengeHandler.Results)
	challenge.Get("/leaderboard", svc.rateLimitSvc.Limit("read"), challengeHandler.Leaderboard)

	admin := v1.Group("/admin", svc.authSvc.RequiredAuth(), svc.authSvc.RequireRole(shared.RoleAdmin))
	admin.Post("/movies/import", adminHandler.ImportMovie)
	admin.Post("/movies/:movieId/images", adminHandler.UploadImage)
	admin.Post("/images/:imageId/actors", adminHandler.TagImageActor)
	admin.Post("/challenges", adminHandler.CreateChallenge)

	log.Info().Int("port", svc.port).Msg("HTTP server started")
	return svc.server.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return c.Status(appErr.StatusCode).JSON(shared.Response{
			Code:    appErr.StatusCode,
			Message: appErr.Message,
			Data:    appErr.Data,
		})
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
	return shared.ResponseInternalError(c, err)
}
