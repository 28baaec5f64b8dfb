package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedback-quiz-service/internal/app"
	"feedback-quiz-service/internal/config"
	"feedback-quiz-service/internal/domain"
	"feedback-quiz-service/internal/infra/gemini"
	"feedback-quiz-service/internal/infra/memory"
	mongostore "feedback-quiz-service/internal/infra/mongo"
	pgstore "feedback-quiz-service/internal/infra/postgres"
	redisstore "feedback-quiz-service/internal/infra/redis"
	transport "feedback-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// recordStore is what every backend provides.
type recordStore interface {
	app.QuizStore
	app.ResponseStore
}

// sessionStore keeps drafts and guards submission.
type sessionStore interface {
	app.DraftStore
	app.SubmissionGuard
}

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the feedback quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	config.InitLogger(cfg.Log.Level, cfg.Log.Format)
	log := config.Logger

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	records, closeStore, err := openRecordStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	sessionTTL := config.TTLDuration(cfg.Session.TTL, config.TTLDuration(cfg.Redis.TTL, 2*time.Hour))

	var quizRepo app.QuizRepository
	var sessions sessionStore
	if redisClient != nil {
		quizRepo = redisstore.NewQuizRepository(redisClient, records, quizTTL)
		sessions = redisstore.NewSessionStore(redisClient, sessionTTL)
	} else {
		quizRepo = memory.NewQuizRepository(records, quizTTL)
		sessions = memory.NewSessionStore(sessionTTL)
	}

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("gemini unavailable, feedback requests will fail")
		generator = disabledGenerator{err: err}
	}

	quizzes := app.NewQuizService(records, quizRepo, records)
	respondents := app.NewRespondentService(quizRepo, sessions, sessions, records)
	feedback := app.NewFeedbackService(generator, quizRepo)

	router := transport.NewRouter(transport.RouterConfig{
		Handler:   transport.NewHandler(quizzes, respondents, feedback, cfg.Server.PublicURL),
		WSHandler: transport.NewWSHandler(respondents, feedback),
		Auth:      transport.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.WithField("store", cfg.Store.Driver).Infof("starting feedback quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openRecordStore(ctx context.Context, cfg config.Config) (recordStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return pgstore.NewRecordStore(pool), pool.Close, nil
	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		store := mongostore.NewRecordStore(client.Database(cfg.Mongo.Database))
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return store, func() { _ = client.Disconnect(context.Background()) }, nil
	case config.DriverMemory:
		config.Logger.Warn("using in-memory record store, data is lost on restart")
		return memory.NewRecordStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func newGenerator(ctx context.Context, cfg config.Config) (app.TextGenerator, error) {
	client, err := gemini.NewClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		return nil, err
	}
	timeout := config.TTLDuration(cfg.Gemini.Timeout, 30*time.Second)
	return gemini.NewGenerator(client.Models, cfg.Gemini.Model, timeout), nil
}

// disabledGenerator fails every call with the startup error.
type disabledGenerator struct {
	err error
}

func (g disabledGenerator) Complete(context.Context, string, domain.SafetyConfig) (string, error) {
	return "", g.err
}
