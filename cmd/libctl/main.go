// libctl is the operational CLI for the digital library: seeding a demo
// catalog and managing admin accounts.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/digital-library/internal/infrastructure/config"
	mongodb "github.com/openshelf/digital-library/internal/infrastructure/db/mongo"
)

var rootCmd = &cobra.Command{
	Use:          "libctl",
	Short:        "Operational tasks for the digital library",
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createAdminCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB loads configuration and connects to MongoDB the same way the server
// does.
func openDB(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	_ = godotenv.Load()
	cfg := config.Load()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return client, db, nil
}

func closeDB(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = client.Disconnect(ctx)
}
