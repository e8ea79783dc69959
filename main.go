package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/singhshivanjali049-sudo/customer-support-chatbot/api"
	"github.com/singhshivanjali049-sudo/customer-support-chatbot/completion"
	"github.com/singhshivanjali049-sudo/customer-support-chatbot/config"
	"github.com/singhshivanjali049-sudo/customer-support-chatbot/engine"
	"github.com/singhshivanjali049-sudo/customer-support-chatbot/policy"
	"github.com/singhshivanjali049-sudo/customer-support-chatbot/transcript"
)

func main() {
	cfg := config.Load()

	log.Printf("Starting chat server...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("LLM Base URL: %s", cfg.LLMBaseURL)
	log.Printf("Log file: %s", cfg.LogFile)
	log.Printf("Database: %s", cfg.DatabaseURL)

	// Canonical CSV transcript log
	csvLog := transcript.NewCSVLog(cfg.LogFile)
	if err := csvLog.EnsureInitialized(); err != nil {
		log.Fatalf("Failed to initialize transcript log: %v", err)
	}

	// SQLite mirror for the session listing endpoints
	mirror, err := transcript.NewSQLiteLog(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize transcript mirror: %v", err)
	}
	defer mirror.Close()

	tlog := transcript.NewMultiLog(csvLog, mirror)

	// Completion backend
	var backend completion.Backend
	if cfg.MockMode {
		log.Println("CHAT_MODE=MOCK detected, using mock completion backend")
		backend = completion.NewMockBackend()
	} else {
		backend = completion.NewClient(cfg.LLMBaseURL, cfg.LLMTimeout)
	}
	completer := completion.NewCompleter(backend)

	// Turn admission policy
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	eng := engine.New(tlog, completer, engine.WithPolicy(policyEngine))

	h := api.NewHandler(eng, csvLog, mirror)

	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	h.RegisterRoutes(server)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Chat API started on port %d (session %s)", cfg.HTTPPort, eng.SessionID())

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chat server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Chat server stopped")
}
