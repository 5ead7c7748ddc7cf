package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/config"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/db"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/utils"
)

func main() {
	email := flag.String("email", "", "Admin email (required)")
	password := flag.String("password", "", "Admin password (required)")
	name := flag.String("name", "", "Admin name (defaults to the email's local part)")
	role := flag.String("role", "admin", "Admin role: 'admin' or 'editor'")
	configPath := flag.String("config", "config/config.prod.yml", "Path to config file")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *role != "admin" && *role != "editor" {
		fmt.Println("Error: role must be 'admin' or 'editor'")
		os.Exit(1)
	}
	if *name == "" {
		*name = utils.ExtractNameFromEmail(*email)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Failed to load config", "err", err)
	}
	logger := utils.NewLogger(cfg.Log.Level)

	if err := db.ConnectMongoDB(cfg.Database.URI, logger); err != nil {
		logger.Fatal("Failed to connect to MongoDB", "err", err)
	}
	defer db.MongoClient.Disconnect(context.Background())

	hashedPassword, err := utils.HashPassword(*password)
	if err != nil {
		logger.Fatal("Failed to hash password", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	admin, err := db.NewAdminStore(db.MongoDatabase).Create(ctx, models.Admin{
		Email:    *email,
		Password: hashedPassword,
		Role:     *role,
		Name:     *name,
	})
	if errors.Is(err, db.ErrAdminExists) {
		logger.Fatal("Admin already exists", "email", *email)
	}
	if err != nil {
		logger.Fatal("Failed to create admin", "err", err)
	}

	fmt.Printf("Admin created successfully!\n")
	fmt.Printf("   ID: %s\n", admin.ID.Hex())
	fmt.Printf("   Email: %s\n", admin.Email)
	fmt.Printf("   Name: %s\n", admin.Name)
	fmt.Printf("   Role: %s\n", admin.Role)
}
