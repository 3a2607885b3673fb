package entity

import "time"

// Admin positively asserts the admin role for a uid.
type Admin struct {
	UID     string    `bson:"uid"`
	Email   string    `bson:"email"`
	Granted time.Time `bson:"granted"`
}
