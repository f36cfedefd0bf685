package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/tharsan/event-booking-api/internal/config"
	"github.com/tharsan/event-booking-api/internal/database"
	"github.com/tharsan/event-booking-api/internal/googleauth"
	"github.com/tharsan/event-booking-api/internal/handler"
	"github.com/tharsan/event-booking-api/internal/mailer"
	appmw "github.com/tharsan/event-booking-api/internal/middleware"
	"github.com/tharsan/event-booking-api/internal/queue"
	"github.com/tharsan/event-booking-api/internal/repository"
	"github.com/tharsan/event-booking-api/internal/router"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	if err := database.RunMigrations(db); err != nil {
		logger.Fatal().Err(err).Msg("database migration failed")
	}
	logger.Info().Str("db", cfg.DBName).Msg("database connected")

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn().Msg("redis unavailable, rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	services := repository.NewServiceRepo(db)
	categories := repository.NewCategoryRepo(db)
	bookings := repository.NewBookingRepo(db)

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, logger)
	google := googleauth.New(cfg.GoogleClientID)
	publisher := queue.NewPublisher(cfg.AMQPURL, logger)
	go queue.StartBookingConsumer(cfg.AMQPURL, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(appmw.RequestLog(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	var events handler.EventPublisher
	if publisher != nil {
		events = publisher
	}
	router.RegisterRoutes(e, router.Deps{
		Auth:       handler.NewAuthHandler(users, google, cfg),
		Reset:      handler.NewPasswordResetHandler(users, mail, cfg),
		UserAdmin:  handler.NewUserAdminHandler(users),
		Services:   handler.NewServiceHandler(services, categories),
		Categories: handler.NewCategoryHandler(categories, services),
		Bookings:   handler.NewBookingHandler(bookings, events, logger),
		JWTSecret:  cfg.JWTSecret,
		RateLimit:  appmw.RateLimit(config.LoadRateLimitConfig(), rdb),
	})

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
