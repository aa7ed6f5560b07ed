// Command seed-admin creates a login account, typically the first
// administrator:
//
//	seed-admin -username admin -password admin123 -role admin
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhlee-dev/sis-portal/internal/models"
	"github.com/jhlee-dev/sis-portal/internal/repository"
	"github.com/jhlee-dev/sis-portal/pkg/config"
	"github.com/jhlee-dev/sis-portal/pkg/database"
)

func main() {
	username := flag.String("username", "", "login username (required)")
	password := flag.String("password", "", "login password (required)")
	role := flag.String("role", string(models.RoleAdmin), "account role: admin or student")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -username and -password are required")
	}
	if *role != string(models.RoleAdmin) && *role != string(models.RoleStudent) {
		log.Fatalf("invalid role %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	accounts := repository.NewAccountRepository(db)

	if _, err := accounts.FindByUsername(ctx, *username); err == nil {
		log.Fatalf("account %q already exists", *username)
	} else if !errors.Is(err, sql.ErrNoRows) {
		log.Fatalf("failed to look up account: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	account := &models.Account{
		Username:     *username,
		PasswordHash: string(hash),
		Role:         models.Role(*role),
	}
	if err := accounts.Create(ctx, account); err != nil {
		log.Fatalf("failed to create account: %v", err)
	}

	log.Printf("created account %q (%s) with id %d", account.Username, account.Role, account.ID)
}
