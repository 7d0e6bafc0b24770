// Package main provides operator account management utilities.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"chapel/internal/config"
	"chapel/internal/database"
	"chapel/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <user_id>   - Grant operator console access")
		fmt.Println("  go run ./cmd/admin demote <user_id>    - Revoke operator console access")
		fmt.Println("  go run ./cmd/admin list                - List all operators")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin promote <user_id>")
			os.Exit(1)
		}
		setAdmin(db, os.Args[2], true)

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin demote <user_id>")
			os.Exit(1)
		}
		setAdmin(db, os.Args[2], false)

	case "list":
		listAdmins(db)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func setAdmin(db *gorm.DB, idArg string, admin bool) {
	id, err := strconv.ParseUint(idArg, 10, 32)
	if err != nil {
		log.Fatalf("Invalid user ID %q", idArg)
	}

	var user models.User
	if err := db.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("User %d not found", id)
		}
		log.Fatalf("Failed to load user %d: %v", id, err)
	}

	if err := db.Model(&user).Update("is_admin", admin).Error; err != nil {
		log.Fatalf("Failed to update user %d: %v", id, err)
	}

	verb := "promoted to"
	if !admin {
		verb = "demoted from"
	}
	fmt.Printf("User %s (%s) %s operator\n", user.Username, user.Email, verb)
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("is_admin = ?", true).Order("id").Find(&admins).Error; err != nil {
		log.Fatalf("Failed to list operators: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No operators configured")
		return
	}
	for _, u := range admins {
		fmt.Printf("%4d  %-24s %s\n", u.ID, u.Username, u.Email)
	}
}
