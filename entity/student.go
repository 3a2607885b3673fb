package entity

import (
	"time"

	pb "gym-backend/proto"
)

type Student struct {
	UID     string    `bson:"uid"`
	Name    string    `bson:"name"`
	Email   string    `bson:"email"`
	Phone   string    `bson:"phone"`
	Plan    string    `bson:"plan"`
	DueDate time.Time `bson:"due_date"`
	Created time.Time `bson:"created"`
}

func (s *Student) ToProto() *pb.Student {
	res := &pb.Student{
		Uid:   s.UID,
		Name:  s.Name,
		Email: s.Email,
		Phone: s.Phone,
		Plan:  s.Plan,
	}
	if !s.DueDate.IsZero() {
		res.DueDate = s.DueDate.UTC().Format(DateLayout)
	}

	return res
}

const DateLayout = "2006-01-02"

// ParseDate accepts a plain date or an RFC 3339 timestamp.
func ParseDate(v string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
