package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-content-backend/api"
	"github.com/rpupo63/portfolio-content-backend/config"
	"github.com/rpupo63/portfolio-content-backend/database"
	"github.com/rpupo63/portfolio-content-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	backend, err := newMediaBackend(cfg.Media)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Media.Backend).Msg("Error initializing media storage")
	}

	currentDB, err := database.New(cfg.DataDir, database.NewMediaStore(backend))
	if err != nil {
		log.Fatal().Err(err).Str("dataDir", cfg.DataDir).Msg("Error opening content store")
	}
	log.Info().Str("dataDir", cfg.DataDir).Str("mediaBackend", cfg.Media.Backend).Msg("Content store ready")

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(cfg, currentDB, newContactRelay(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(cfg.ShutdownTimeout)
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func newMediaBackend(cfg config.MediaConfig) (database.MediaBackend, error) {
	switch cfg.Backend {
	case config.MediaBackendS3:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client, err := database.NewS3Client(ctx, cfg.S3Endpoint)
		if err != nil {
			return nil, err
		}
		return database.NewS3Backend(client, cfg.S3Bucket, cfg.S3Prefix), nil
	default:
		disk, err := database.NewDiskBackend(cfg.UploadsDir)
		if err != nil {
			return nil, err
		}
		return disk, nil
	}
}

// newContactRelay wires whichever contact channels are configured. Missing email
// configuration is not fatal: /send-email answers 503 instead.
func newContactRelay(cfg config.Config) *services.ContactRelay {
	var mailer *services.Mailer
	if cfg.Resend.Enabled() {
		mailer = services.NewMailer(cfg.Resend)
	} else {
		log.Warn().Msg("RESEND_API_KEY or RESEND_FROM_EMAIL not set, contact email disabled")
	}

	var sms *services.SMSNotifier
	if cfg.Twilio.Enabled() {
		sms = services.NewSMSNotifier(cfg.Twilio)
	}

	return services.NewContactRelay(mailer, sms, cfg.Contact.Recipient)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
