package int

import (
	"context"
	"os"

	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gym-backend/entity"
	"gym-backend/store"
)

func envOrDefault(env, def string) string {
	if v, ok := os.LookupEnv(env); ok {
		return v
	}
	return def
}

var (
	backendAddr = envOrDefault("GYM_GRPC_ADDR", "localhost:6969")
	mongoURI    = envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	mongoDB     = envOrDefault("MONGO_DATABASE", "gym")
)

func database() *mongo.Database {
	m, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	Expect(err).To(BeNil())
	return m.Database(mongoDB)
}

func cleanupMongo() {
	db := database()
	defer db.Client().Disconnect(context.Background())

	collections := []string{
		entity.CollectionAuth,
		entity.CollectionStudents,
		entity.CollectionAdmins,
		entity.CollectionPasswordResets,
	}
	for _, v := range collections {
		_, err := db.Collection(v).DeleteMany(context.Background(), bson.M{})
		Expect(err).To(BeNil())
	}
}

// documents opens the backend's document store directly, for seeding.
func documents() (*store.Mongo, func()) {
	db := database()
	return store.NewMongo(db), func() {
		_ = db.Client().Disconnect(context.Background())
	}
}
