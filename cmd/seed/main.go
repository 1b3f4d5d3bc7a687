package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"tokenrelay/internal/config"
	"tokenrelay/internal/domain"
	"tokenrelay/internal/pkg/secret"
	"tokenrelay/internal/repository"
)

type seedUser struct {
	email, name, password string
}

var demoUsers = []seedUser{
	{email: "ann@example.com", name: "Ann", password: "ann-secret"},
	{email: "bob@example.com", name: "Bob", password: "bob-secret"},
}

func main() {
	email := flag.String("email", "", "create a single user with this email instead of the demo users")
	name := flag.String("name", "", "display name for -email")
	password := flag.String("password", "", "password for -email")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	scheme, err := secret.ParseScheme(cfg.SecretScheme)
	if err != nil {
		log.Fatal(err)
	}
	matcher, err := secret.NewMatcher(scheme)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	store, closeStore, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	defer closeStore()

	users := demoUsers
	if *email != "" {
		if *password == "" {
			log.Fatal("-password is required with -email")
		}
		users = []seedUser{{email: *email, name: *name, password: *password}}
	}

	for _, su := range users {
		stored, err := matcher.Hash(su.password)
		if err != nil {
			log.Fatalf("hash secret for %s: %v", su.email, err)
		}

		err = store.Create(ctx, &domain.User{Email: su.email, Name: su.name, Secret: stored})
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			log.Printf("skipped %s: already exists", su.email)
		case err != nil:
			log.Fatalf("create %s: %v", su.email, err)
		default:
			log.Printf("created %s (scheme=%s)", su.email, scheme)
		}
	}
}
