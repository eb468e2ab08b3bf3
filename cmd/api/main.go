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

	"github.com/go-auth-core/internal/config"
	"github.com/go-auth-core/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-auth-core/internal/infrastructure/jwt"
	redisinfra "github.com/go-auth-core/internal/infrastructure/redis"
	"github.com/go-auth-core/internal/infrastructure/smtp"
	"github.com/go-auth-core/internal/infrastructure/sns"
	transporthttp "github.com/go-auth-core/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them and seeds default roles).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Redis-backed key-value store: rate limit counters, revocation
	// entries, and OTP records all live here.
	redisClient := redisinfra.NewClient(cfg)
	kvStore := redisinfra.NewStore(redisClient, cfg.StoreTimeout)
	if err := kvStore.Ping(context.Background()); err != nil {
		log.Printf("WARN: redis not reachable at startup: %v", err)
	}

	codec, err := jwtinfra.NewCodec(cfg)
	if err != nil {
		log.Fatalf("JWT codec: %v", err)
	}

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender is optional; email delivery still works without it.
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:  dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		RoleRepo:  dynamo.NewRoleRepo(dynamoClient, cfg.DynamoTables.Roles),
		KVStore:   kvStore,
		Codec:     codec,
		Mailer:    mailer,
		SMSSender: smsSender,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	_ = redisClient.Close()
	log.Println("Server stopped")
}
