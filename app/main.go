package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/quillhaven/inkpost/internal/commentservice"
	"github.com/quillhaven/inkpost/internal/common"
	"github.com/quillhaven/inkpost/internal/mediaservice"
	"github.com/quillhaven/inkpost/internal/postservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	postService    *postservice.PostService
	commentService *commentservice.CommentService
	broker         *common.MessageBroker
}

func main() {
	// Initialize the logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load the configuration
	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the database
	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	// Initialize the message broker
	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	// Setup the exchange, queue, and binding key
	err = common.SetupPostExchange(broker)
	if err != nil {
		logger.Error("failed to setup the post exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the media storage backend
	storage, err := mediaservice.NewS3Storage(cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Endpoint, cfg.S3Bucket, cfg.S3PublicBase)
	if err != nil {
		logger.Error("failed to create the s3 storage client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the services
	c := common.NewCache(5*time.Minute, 10*time.Minute)
	media := mediaservice.NewMediaService(storage)

	app := &application{
		config:         cfg,
		logger:         logger,
		postService:    postservice.NewPostService(db, media, c, broker),
		commentService: commentservice.NewCommentService(db),
		broker:         broker,
	}

	// Start the HTTP server
	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
