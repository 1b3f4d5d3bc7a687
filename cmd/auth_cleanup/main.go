package main

import (
	"context"
	"log"

	"tokenrelay/internal/config"
	"tokenrelay/internal/modules/auth"
	"tokenrelay/internal/pkg/jwt"
	"tokenrelay/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	codec, err := jwt.New(jwt.Config{
		AccessSecret:  cfg.AccessSecret,
		RenewalSecret: cfg.RenewalSecret,
		AccessTTL:     cfg.AccessTTL,
		RenewalTTL:    cfg.RenewalTTL,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	store, closeStore, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("store connect failed: %v", err)
	}
	defer closeStore()

	report, err := auth.CleanupRenewalTokens(ctx, store, codec)
	if err != nil {
		log.Fatalf("cleanup renewal tokens failed: %v", err)
	}

	log.Printf("auth cleanup completed: scanned=%d expired=%d invalid=%d cleared=%d",
		report.Scanned, report.Expired, report.Invalid, report.Cleared)
}
