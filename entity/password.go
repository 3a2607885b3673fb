package entity

import "time"

type PasswordReset struct {
	UID   string    `bson:"uid"`
	Token string    `bson:"token"`
	TTL   time.Time `bson:"ttl"`
	Used  bool      `bson:"used"`
}
