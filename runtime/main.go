package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/stillframe-app/stillframe_api/services"
)

// @title StillFrame API
// @version 1.0
// @description Daily movie still guessing game API

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.RedisService{},
		&services.PostgresService{},
		&services.JWTService{},

		&services.AuthService{},
		&services.RateLimitService{},
		&services.MediaService{},
		&services.TmdbService{},
		&services.ChallengeService{},
		&services.AdminService{},
		&services.SchedulerService{},
		&services.MonitoringService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure services")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service runtime exited")
		return
	}
}
