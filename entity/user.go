package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a credential record in the "auth" collection.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	UID      string             `bson:"uid"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
}
