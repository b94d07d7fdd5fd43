// Command main runs the database seeder for Campfire.
package main

import (
	"flag"
	"log"

	"campfire/internal/config"
	"campfire/internal/database"
	"campfire/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 15, "Number of users to create")
	numCommunities := flag.Int("communities", 4, "Number of communities to create")
	postsPerUser := flag.Int("posts-per-user", 3, "Maximum posts per user")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store marker passwords instead of bcrypt digests (faster, accounts cannot log in)")
	flag.Parse()

	log.Println("Campfire database seeder")
	log.Printf("Target: %d users, %d communities, up to %d posts per user\n",
		*numUsers, *numCommunities, *postsPerUser)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Demo(db, seed.Options{
		NumUsers:       *numUsers,
		NumCommunities: *numCommunities,
		PostsPerUser:   *postsPerUser,
		SkipBcrypt:     *skipBcrypt,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Test users have the password: password123")
}
