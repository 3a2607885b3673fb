package store

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gym-backend/errs"
)

// Memory is a process-local Store honouring UniqueIndexes. It backs local
// development and tests.
type Memory struct {
	lock        sync.RWMutex
	collections map[string][]Record
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]Record)}
}

func (m *Memory) Find(_ context.Context, collection, field string, op Operator, value interface{}) ([]Record, error) {
	if !op.Valid() {
		return nil, errs.ErrInvalidOperator
	}

	m.lock.RLock()
	defer m.lock.RUnlock()

	var out []Record
	for _, r := range m.collections[collection] {
		if matches(r[field], op, value) {
			out = append(out, copyRecord(r))
		}
	}

	return out, nil
}

func (m *Memory) Insert(_ context.Context, collection string, doc interface{}) error {
	r, err := toRecord(doc)
	if err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	for _, field := range UniqueIndexes[collection] {
		v, ok := r[field]
		if !ok || v == nil {
			continue
		}
		for _, existing := range m.collections[collection] {
			if equal(existing[field], v) {
				return errs.ErrAlreadyExists
			}
		}
	}

	m.collections[collection] = append(m.collections[collection], r)
	return nil
}

func (m *Memory) Update(_ context.Context, collection, field string, value interface{}, set Record) (int64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	var n int64
	for _, r := range m.collections[collection] {
		if !equal(r[field], value) {
			continue
		}
		for k, v := range set {
			r[k] = v
		}
		n++
	}

	return n, nil
}

func (m *Memory) Delete(_ context.Context, collection, field string, value interface{}) (int64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	kept := m.collections[collection][:0]
	var n int64
	for _, r := range m.collections[collection] {
		if equal(r[field], value) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.collections[collection] = kept

	return n, nil
}

func copyRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func matches(actual interface{}, op Operator, value interface{}) bool {
	switch op {
	case Eq:
		return equal(actual, value)
	case Ne:
		return !equal(actual, value)
	case Lt, Lte, Gt, Gte:
		c, ok := compare(actual, value)
		if !ok {
			return false
		}
		switch op {
		case Lt:
			return c < 0
		case Lte:
			return c <= 0
		case Gt:
			return c > 0
		default:
			return c >= 0
		}
	case In:
		return containsValue(value, actual)
	case ArrayContains:
		return containsValue(actual, value)
	}

	return false
}

func containsValue(list, v interface{}) bool {
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}

	for i := 0; i < rv.Len(); i++ {
		if equal(rv.Index(i).Interface(), v) {
			return true
		}
	}

	return false
}

func equal(a, b interface{}) bool {
	if c, ok := compare(a, b); ok {
		return c == 0
	}

	return reflect.DeepEqual(normalize(a), normalize(b))
}

func compare(a, b interface{}) (int, bool) {
	switch x := normalize(a).(type) {
	case float64:
		y, ok := normalize(b).(float64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case string:
		y, ok := normalize(b).(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case time.Time:
		y, ok := normalize(b).(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case x.Before(y):
			return -1, true
		case x.After(y):
			return 1, true
		}
		return 0, true
	}

	return 0, false
}

// normalize folds the representations bson decoding produces onto plain Go
// values so records written as structs compare against query arguments.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().Truncate(time.Millisecond)
	case time.Time:
		return t.Truncate(time.Millisecond)
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	}

	return v
}
