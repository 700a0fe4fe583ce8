package main

import (
	"flag"
	"fmt"

	"campus-finance/app/config"
	"campus-finance/app/database"
	"campus-finance/app/models"
	"campus-finance/app/routes/auth"
)

func main() {
	firstName := flag.String("first-name", "Finance", "admin first name")
	lastName := flag.String("last-name", "Admin", "admin last name")
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Println("Usage: add_admin -email <email> -password <password> [-first-name ...] [-last-name ...]")
		return
	}

	// Initialize database connection
	config.InitDB()
	db := config.GetDB()
	if db == nil {
		fmt.Println("Failed to connect to database")
		return
	}
	defer db.Close()

	hashed, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Printf("Error hashing password: %v\n", err)
		return
	}

	user := &models.User{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Password:  hashed,
		Role:      "admin",
	}

	if err := database.CreateUser(db, user); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		return
	}

	fmt.Printf("Admin created successfully: %s %s (%s)\n", user.FirstName, user.LastName, user.Email)
}
