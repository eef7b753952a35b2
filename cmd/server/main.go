package main

import (
	"fmt"
	"log"

	"github.com/taskstack/task-management/internal/api"
	"github.com/taskstack/task-management/internal/database"
	"github.com/taskstack/task-management/internal/mailer"
	"github.com/taskstack/task-management/internal/models"
	"github.com/taskstack/task-management/pkg/auth"
	"github.com/taskstack/task-management/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	db, err := database.New(cfg.Database.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT.Key, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.AccessTokenTTL())
	if err != nil {
		log.Fatalf("Failed to initialize JWT manager: %v", err)
	}

	var mail mailer.Sender
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username,
			cfg.SMTP.Password, cfg.SMTP.From, cfg.SMTP.FromName)
	} else {
		log.Println("SMTP_HOST not set; outbound mail will be logged instead of delivered")
		mail = mailer.LogSender{}
	}

	if err := seedAdmin(db, cfg); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	handler := api.NewHandler(db, jwtManager, mail, cfg)
	router := api.SetupRouter(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// seedAdmin creates the bootstrap admin account when none exists and
// ADMIN_EMAIL/ADMIN_PASSWORD are configured.
func seedAdmin(db *database.Database, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	uow := database.NewUnitOfWork(db)

	existing, err := uow.Users.GetByEmail(cfg.Admin.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	uow.Users.Add(&models.User{
		Email:        cfg.Admin.Email,
		PasswordHash: hash,
		FirstName:    "Admin",
		LastName:     "User",
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	})
	if save := uow.SaveChanges(); !save.IsSuccessful {
		return fmt.Errorf("admin seed failed: %v", save.Errors)
	}

	log.Printf("Seeded admin account %s", cfg.Admin.Email)
	return nil
}
