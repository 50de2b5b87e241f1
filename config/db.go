package config

import (
	"context"
	"os"
	"sync"
	"time"

	"civic-reporter-api/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	db     *mongo.Database
	client *mongo.Client
	once   sync.Once
)

// ConnectDB initializes and returns a MongoDB database connection
func ConnectDB() *mongo.Database {
	once.Do(func() {
		mongoURI := os.Getenv("MONGODB_URI")
		if mongoURI == "" {
			utils.Log.Fatal("Please define the MONGODB_URI environment variable")
		}

		dbName := os.Getenv("MONGODB_DB")
		if dbName == "" {
			dbName = "civic_reporter"
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		c, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			utils.Log.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}

		if err := c.Ping(ctx, nil); err != nil {
			utils.Log.Fatal("Failed to ping MongoDB", zap.Error(err))
		}

		utils.Log.Info("Connected to MongoDB")

		client = c
		db = client.Database(dbName)
	})

	return db
}
