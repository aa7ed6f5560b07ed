// Command seed-profile creates or updates the student profile linked to an
// existing account. Only the flags that were provided overwrite fields:
//
//	seed-profile -username student01 -name 홍길동 -student-no 20250001 \
//	    -college 공과대학 -department 컴퓨터공학과
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"

	"github.com/jhlee-dev/sis-portal/internal/models"
	"github.com/jhlee-dev/sis-portal/internal/repository"
	"github.com/jhlee-dev/sis-portal/pkg/config"
	"github.com/jhlee-dev/sis-portal/pkg/database"
)

func main() {
	username := flag.String("username", "", "account username to link (required)")
	name := flag.String("name", "", "student name")
	studentNo := flag.String("student-no", "", "student number")
	college := flag.String("college", "", "college")
	department := flag.String("department", "", "department")
	cert := flag.String("cert", "", "certification track")
	extra := flag.String("extra", "", "extracurricular programs, comma separated")
	consortium := flag.String("consortium", "", "consortium curriculum status")
	flag.Parse()

	if *username == "" {
		log.Fatal("-username is required")
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
	profiles := repository.NewProfileRepository(db)

	account, err := accounts.FindByUsername(ctx, *username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Fatalf("account %q not found; run seed-admin first", *username)
		}
		log.Fatalf("failed to look up account: %v", err)
	}

	profile, err := profiles.FindByAccountID(ctx, account.ID)
	created := false
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Fatalf("failed to look up profile: %v", err)
		}
		profile = &models.StudentProfile{AccountID: &account.ID}
		created = true
	}

	apply(&profile.Name, *name)
	apply(&profile.StudentNo, *studentNo)
	apply(&profile.College, *college)
	apply(&profile.Department, *department)
	apply(&profile.CertificationTrack, *cert)
	apply(&profile.ExtracurricularPrograms, *extra)
	apply(&profile.ConsortiumCurriculumStatus, *consortium)

	if profile.StudentNo == "" {
		log.Fatal("-student-no is required for a new profile")
	}

	if created {
		err = profiles.Create(ctx, profile)
	} else {
		err = profiles.Update(ctx, profile)
	}
	if err != nil {
		log.Fatalf("failed to persist profile: %v", err)
	}

	log.Printf("upserted profile for %q (profile id %d)", *username, profile.ID)
}

func apply(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
