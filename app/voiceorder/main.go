package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/charcochicken/goVoiceOrder/app/voiceorder/handlers"
	"github.com/charcochicken/goVoiceOrder/business/agent"
	"github.com/charcochicken/goVoiceOrder/business/convlog"
	"github.com/charcochicken/goVoiceOrder/business/menu"
	"github.com/charcochicken/goVoiceOrder/business/orders"
	"github.com/charcochicken/goVoiceOrder/foundation/events"
	"github.com/charcochicken/goVoiceOrder/foundation/external/classifier"
	"github.com/charcochicken/goVoiceOrder/foundation/logger"
	"github.com/charcochicken/goVoiceOrder/foundation/pubsub"
	"github.com/charcochicken/goVoiceOrder/foundation/redis"
)

var (
	version   string
	buildTime string
)

type config struct {
	conf.Version
	Web struct {
		Address         string        `conf:"default:0.0.0.0:8000"`
		ReadTimeout     time.Duration `conf:"default:5s"`
		WriteTimeout    time.Duration `conf:"default:10s"`
		IdleTimeout     time.Duration `conf:"default:120s"`
		ShutdownTimeout time.Duration `conf:"default:20s"`
	}
	Dialogue struct {
		ConfidenceThreshold float64       `conf:"default:0.4"`
		MaxClarifyRetries   int           `conf:"default:2"`
		ContextWindow       int           `conf:"default:6"`
		IdleTimeout         time.Duration `conf:"default:5m"`
		SweepInterval       time.Duration `conf:"default:1m"`
		ComplimentaryItem   string        `conf:"default:شاي"`
	}
	Orders struct {
		ETAMinMinutes int `conf:"default:15"`
		ETAMaxMinutes int `conf:"default:45"`
	}
	Menu struct {
		FilePath string
	}
	Classifier struct {
		Endpoint string        `conf:"default:http://localhost:9000/classify"`
		ApiKey   string        `conf:"noprint"`
		Timeout  time.Duration `conf:"default:5s"`
	}
	Redis struct {
		Address             string
		Password            string `conf:"noprint"`
		ConversationChannel string `conf:"default:voiceOrder:conversation"`
		OrdersChannel       string `conf:"default:voiceOrder:orders"`
	}
	Nats struct {
		URL     string
		Subject string `conf:"default:voiceorder.orders"`
	}
	Logger struct {
		LogDirectory string `conf:"noprint"`
	}
}

func main() {
	// =================================================================================================================
	// Configuration

	godotenv.Load()

	cfg := config{
		Version: conf.Version{
			Build: version,
			Desc:  buildTime,
		},
	}

	help, err := conf.Parse("VOICEORDER", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			os.Stdout.WriteString(help + "\n")
			os.Exit(0)
		}
		os.Exit(1)
	}

	// =================================================================================================================
	// Application Logger

	log, err := logger.New(cfg.Logger.LogDirectory, "voiceorder")
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log, cfg); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger, cfg config) error {
	out, err := conf.String(&cfg)
	if err != nil {
		return err
	}
	log.Infow("startup", "config", out)

	// =================================================================================================================
	// Menu Catalog

	catalog := menu.Default()
	if cfg.Menu.FilePath != "" {
		catalog, err = menu.Load(cfg.Menu.FilePath)
		if err != nil {
			return err
		}
	}
	log.Infow("startup: menu loaded", "items", len(catalog.Items()))

	// =================================================================================================================
	// Dashboard Sinks

	var redisClient *redis.Redis
	if cfg.Redis.Address != "" {
		redisClient, err = redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.ConversationChannel, cfg.Redis.OrdersChannel, log)
		if err != nil {
			log.Errorw("startup: redis", "ERROR", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var publisher *events.Publisher
	if cfg.Nats.URL != "" {
		publisher, err = events.NewPublisher(cfg.Nats.URL, cfg.Nats.Subject, log)
		if err != nil {
			log.Errorw("startup: nats", "ERROR", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// =================================================================================================================
	// Voice Agent

	repo := orders.NewMemoryRepo()
	broker := pubsub.NewBroker()
	conversationLog := convlog.New(broker)

	classifierService := classifier.New(cfg.Classifier.Endpoint, cfg.Classifier.ApiKey, cfg.Classifier.Timeout, cfg.Dialogue.ContextWindow)

	voiceAgent := agent.New(agent.Settings{
		Config: agent.Config{
			ConfidenceThreshold: cfg.Dialogue.ConfidenceThreshold,
			MaxClarifyRetries:   cfg.Dialogue.MaxClarifyRetries,
			ContextWindow:       cfg.Dialogue.ContextWindow,
			ClassifyTimeout:     cfg.Classifier.Timeout,
			IdleTimeout:         cfg.Dialogue.IdleTimeout,
			SweepInterval:       cfg.Dialogue.SweepInterval,
			ComplimentaryItem:   cfg.Dialogue.ComplimentaryItem,
			ETAMinMinutes:       cfg.Orders.ETAMinMinutes,
			ETAMaxMinutes:       cfg.Orders.ETAMaxMinutes,
		},
		Logger:     log,
		Classifier: classifierService,
		Catalog:    catalog,
		Repo:       repo,
		Log:        conversationLog,
		Redis:      redisClient,
		Events:     publisher,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go voiceAgent.StartSweeper(ctx)

	// =================================================================================================================
	// HTTP Server

	api := handlers.NewAPI(voiceAgent, catalog, repo, conversationLog, log)

	server := &http.Server{
		Addr:         cfg.Web.Address,
		Handler:      api.Router(),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Infow("startup: http server", "address", cfg.Web.Address)
		serverErrors <- server.ListenAndServe()
	}()

	// =================================================================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return err

	case <-ctx.Done():
		log.Infow("shutdown: signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return err
		}
	}

	return nil
}
