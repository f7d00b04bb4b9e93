package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"

	"github.com/mindbotz/team-zephyra/internal/config"
	"github.com/mindbotz/team-zephyra/internal/handler"
	"github.com/mindbotz/team-zephyra/internal/model/persona"
	"github.com/mindbotz/team-zephyra/internal/service/agent"
	"github.com/mindbotz/team-zephyra/internal/service/conversation"
	"github.com/mindbotz/team-zephyra/internal/service/intent"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	registry := persona.NewRegistry(persona.Seed())

	if !cfg.AI.Enabled() {
		log.Fatal("ark credentials not configured; set ARK_API_KEY + Model or the AK/SK pair")
	}

	factory := agent.ModelFactoryFromConfig(cfg.AI)
	agentService, err := agent.NewService(ctx, registry, factory, cfg.Agent)
	if err != nil {
		log.Fatalf("failed to initialize agent service: %v", err)
	}
	log.Println("agent service initialized with four personas")

	conversationService := conversation.NewService(agentService)

	var classifierModel model.ChatModel
	if cfg.Agent.IntentLLMEnabled {
		classifierModel, err = cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to create classifier model: %v", err)
			classifierModel = nil
		}
	}
	intentService, err := intent.NewService(ctx, classifierModel, intent.Config{
		Enabled:      cfg.Agent.IntentLLMEnabled,
		HistoryLimit: cfg.Agent.IntentHistoryLimit,
	})
	if err != nil {
		log.Printf("warning: failed to initialize routing classifier: %v", err)
		intentService = nil
	} else if intentService.Enabled() {
		log.Println("routing classifier enabled")
	} else {
		log.Println("routing classifier disabled, keyword heuristics only")
	}

	router := handler.NewRouter(registry, conversationService, intentService)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Team Zephyra backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
