// Package store is the document store the rest of the service reads roles,
// credentials and student records from.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"gym-backend/entity"
)

type Operator string

const (
	Eq            Operator = "=="
	Ne            Operator = "!="
	Lt            Operator = "<"
	Lte           Operator = "<="
	Gt            Operator = ">"
	Gte           Operator = ">="
	In            Operator = "in"
	ArrayContains Operator = "array-contains"
)

func (o Operator) Valid() bool {
	switch o {
	case Eq, Ne, Lt, Lte, Gt, Gte, In, ArrayContains:
		return true
	}

	return false
}

type Record map[string]interface{}

type Store interface {
	Find(ctx context.Context, collection, field string, op Operator, value interface{}) ([]Record, error)
	Insert(ctx context.Context, collection string, doc interface{}) error
	Update(ctx context.Context, collection, field string, value interface{}, set Record) (int64, error)
	Delete(ctx context.Context, collection, field string, value interface{}) (int64, error)
}

// UniqueIndexes lists the fields that must be unique per collection.
var UniqueIndexes = map[string][]string{
	entity.CollectionAuth:           {"email", "uid"},
	entity.CollectionStudents:       {"uid"},
	entity.CollectionAdmins:         {"uid"},
	entity.CollectionPasswordResets: {"token"},
}

// Decode copies a record into a bson-tagged struct.
func Decode(r Record, v interface{}) error {
	b, err := bson.Marshal(r)
	if err != nil {
		return err
	}

	return bson.Unmarshal(b, v)
}

func toRecord(doc interface{}) (Record, error) {
	if r, ok := doc.(Record); ok {
		out := make(Record, len(r))
		for k, v := range r {
			out[k] = v
		}
		return out, nil
	}

	b, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}

	r := Record{}
	if err := bson.Unmarshal(b, &r); err != nil {
		return nil, err
	}

	return r, nil
}
