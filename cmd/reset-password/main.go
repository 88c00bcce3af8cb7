package main

import (
	"flag"
	"os"

	"go-retail-pos/internal/config"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/database"
	"go-retail-pos/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

// reset-password sets a new password for an admin portal account and signs
// out its current session.
func main() {
	cfg, _ := config.Load()
	log := logger.New(cfg.LogLevel)

	email := flag.String("email", cfg.SeedAdminEmail, "email of the account to reset")
	password := flag.String("password", "", "new password (at least 6 characters)")
	flag.Parse()

	if len(*password) < 6 {
		log.Error().Msg("-password is required and must be at least 6 characters")
		flag.Usage()
		os.Exit(2)
	}

	db, err := database.Connect(cfg.DSN(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	userRepo := repository.NewUserRepo(db)
	user, err := userRepo.FindByEmail(*email)
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("user not found")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	if err := userRepo.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		log.Fatal().Err(err).Msg("failed to update password")
	}

	log.Info().Str("email", user.Email).Msg("password reset; existing sessions were signed out")
}
