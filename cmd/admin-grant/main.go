package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gym-backend/config"
	"gym-backend/internal/grant"
	"gym-backend/store"
)

func main() {
	cfg := config.Load()

	email := flag.String("email", "", "Email of the identity to grant the admin role")
	revoke := flag.Bool("revoke", false, "Revoke instead of grant")
	uri := flag.String("mongo", cfg.MongoURI, "MongoDB connection string")
	db := flag.String("db", cfg.MongoDatabase, "MongoDB database")
	flag.Parse()

	if *email == "" {
		fmt.Println("--email is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*uri))
	if err != nil {
		fmt.Println("Failed connecting to database:", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	s := store.NewMongo(client.Database(*db))

	if *revoke {
		if err := grant.Revoke(ctx, s, *email); err != nil {
			fmt.Println("Revoke failed:", err)
			os.Exit(1)
		}
		fmt.Println("Admin role revoked:", *email)
		return
	}

	a, err := grant.Admin(ctx, s, *email, time.Now())
	if err != nil {
		fmt.Println("Grant failed:", err)
		os.Exit(1)
	}

	fmt.Println("Admin role granted:", a.Email, a.UID)
}
