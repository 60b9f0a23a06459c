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

	"nido/config"
	"nido/internal/database"
	"nido/internal/router"
	"nido/pkg/email"

	"github.com/robfig/cron/v3"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db)

	var sender email.Sender
	if cfg.Email.APIKey != "" {
		sender = email.NewResendClient(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.From)
	} else {
		log.Printf("[email] EMAIL_API_KEY not set, using stub sender")
		sender = email.StubSender{}
	}

	engine, sweeper, dispatcher := router.Setup(cfg, db, sender)

	// The sweeper and dispatcher also run in-process; an external scheduler
	// can hit /api/v1/jobs/* instead, both paths are idempotent per record.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(fmt.Sprintf("@every %s", cfg.Verification.SweepInterval), func() {
		if _, err := sweeper.ExpireOverdue(time.Now()); err != nil {
			log.Printf("[cron] sweep: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("cron sweep: %v", err)
	}
	_, err = scheduler.AddFunc(fmt.Sprintf("@every %s", cfg.Verification.DispatchInterval), func() {
		if _, err := dispatcher.DispatchDue(context.Background(), time.Now()); err != nil {
			log.Printf("[cron] dispatch: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("cron dispatch: %v", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	scheduler.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
