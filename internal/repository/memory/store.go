// Package memory provides a volatile implementation of the document store used for
// demo mode and tests. Documents are kept as bson maps and copied on every read.
package memory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/dairyflow/internal/repository"
)

var _ repository.DocumentStore = (*Store)(nil)

// Store keeps collections in insertion order.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]bson.M
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{collections: make(map[string][]bson.M)}
}

// Find decodes every matching document into results, which must be a pointer to a slice.
func (s *Store) Find(_ context.Context, collection string, filter bson.M, opts repository.FindOptions, results any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched, err := s.match(collection, filter)
	if err != nil {
		return err
	}

	if len(opts.Sort) > 0 {
		sortDocuments(matched, opts.Sort)
	}
	if opts.Skip > 0 {
		if opts.Skip >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[opts.Skip:]
		}
	}
	if opts.Limit > 0 && opts.Limit < int64(len(matched)) {
		matched = matched[:opts.Limit]
	}
	if len(opts.Projection) > 0 {
		for i, doc := range matched {
			matched[i] = project(doc, opts.Projection)
		}
	}

	return decodeAll(matched, results)
}

// FindOne decodes the first matching document into result.
func (s *Store) FindOne(_ context.Context, collection string, filter bson.M, result any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched, err := s.match(collection, filter)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return repository.ErrNotFound
	}
	return decodeInto(matched[0], result)
}

// InsertOne stores a copy of document. A missing _id is filled with a new ObjectID.
func (s *Store) InsertOne(_ context.Context, collection string, document any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(collection, document)
}

// InsertMany stores copies of documents in order. It stops at the first failure.
func (s *Store) InsertMany(_ context.Context, collection string, documents []any) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(documents))
	for _, document := range documents {
		id, err := s.insert(collection, document)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// UpdateOne applies a $set update to the first matching document.
func (s *Store) UpdateOne(_ context.Context, collection string, filter, update bson.M) (repository.UpdateResult, error) {
	return s.update(collection, filter, update, false)
}

// UpdateMany applies a $set update to every matching document.
func (s *Store) UpdateMany(_ context.Context, collection string, filter, update bson.M) (repository.UpdateResult, error) {
	return s.update(collection, filter, update, true)
}

// DeleteOne removes the first matching document.
func (s *Store) DeleteOne(_ context.Context, collection string, filter bson.M) (int64, error) {
	return s.delete(collection, filter, false)
}

// DeleteMany removes every matching document.
func (s *Store) DeleteMany(_ context.Context, collection string, filter bson.M) (int64, error) {
	return s.delete(collection, filter, true)
}

// Close is a no-op.
func (s *Store) Close(context.Context) error {
	return nil
}

func (s *Store) insert(collection string, document any) (string, error) {
	doc, err := toDocument(document)
	if err != nil {
		return "", fmt.Errorf("encode document for %s: %w", collection, err)
	}

	id, ok := doc["_id"]
	if !ok || id == nil {
		oid := primitive.NewObjectID()
		doc["_id"] = oid
		id = oid
	}
	for _, existing := range s.collections[collection] {
		if equal(existing["_id"], id) {
			return "", fmt.Errorf("duplicate _id %v in %s", id, collection)
		}
	}

	s.collections[collection] = append(s.collections[collection], doc)
	if oid, isOID := id.(primitive.ObjectID); isOID {
		return oid.Hex(), nil
	}
	return fmt.Sprint(id), nil
}

func (s *Store) update(collection string, filter, update bson.M, many bool) (repository.UpdateResult, error) {
	set, err := setClause(update)
	if err != nil {
		return repository.UpdateResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var res repository.UpdateResult
	for _, doc := range s.collections[collection] {
		ok, err := matches(doc, filter)
		if err != nil {
			return res, err
		}
		if !ok {
			continue
		}
		res.MatchedCount++
		changed := false
		for key, value := range set {
			if current, present := doc[key]; !present || !equal(current, value) {
				doc[key] = value
				changed = true
			}
		}
		if changed {
			res.ModifiedCount++
		}
		if !many {
			break
		}
	}
	return res, nil
}

func (s *Store) delete(collection string, filter bson.M, many bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	kept := docs[:0]
	var deleted int64
	for _, doc := range docs {
		if many || deleted == 0 {
			ok, err := matches(doc, filter)
			if err != nil {
				return 0, err
			}
			if ok {
				deleted++
				continue
			}
		}
		kept = append(kept, doc)
	}
	s.collections[collection] = kept
	return deleted, nil
}

// match returns the matching documents; callers hold the lock.
func (s *Store) match(collection string, filter bson.M) ([]bson.M, error) {
	var out []bson.M
	for _, doc := range s.collections[collection] {
		ok, err := matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

func setClause(update bson.M) (bson.M, error) {
	if len(update) == 0 {
		return nil, errors.New("update document must not be empty")
	}
	for op := range update {
		if op != "$set" {
			return nil, fmt.Errorf("unsupported update operator %s", op)
		}
	}
	set, ok := asMap(update["$set"])
	if !ok {
		return nil, errors.New("$set expects a document")
	}
	return toDocument(bson.M(set))
}

func toDocument(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeInto(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode stored document: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode stored document: %w", err)
	}
	return nil
}

func decodeAll(docs []bson.M, results any) error {
	rv := reflect.ValueOf(results)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return errors.New("results must be a pointer to a slice")
	}
	slice := rv.Elem()
	out := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, doc := range docs {
		elem := reflect.New(slice.Type().Elem())
		if err := decodeInto(doc, elem.Interface()); err != nil {
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}
	slice.Set(out)
	return nil
}

func project(doc bson.M, projection bson.M) bson.M {
	out := bson.M{}
	includeID := true
	for key, flag := range projection {
		if key == "_id" {
			includeID = truthy(flag)
			continue
		}
		if !truthy(flag) {
			continue
		}
		if value, ok := doc[key]; ok {
			out[key] = value
		}
	}
	if id, ok := doc["_id"]; ok && includeID {
		out["_id"] = id
	}
	return out
}

func sortDocuments(docs []bson.M, keys bson.D) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, key := range keys {
			c, ok := compare(normalize(docs[i][key.Key]), normalize(docs[j][key.Key]))
			if !ok || c == 0 {
				continue
			}
			if direction(key.Value) < 0 {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func direction(v any) float64 {
	if n, ok := normalize(v).(float64); ok {
		return n
	}
	return 1
}

func truthy(v any) bool {
	switch n := normalize(v).(type) {
	case float64:
		return n != 0
	case bool:
		return n
	default:
		return false
	}
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case bson.M:
		return m, true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

func isOperatorDoc(v any) (map[string]any, bool) {
	m, ok := asMap(v)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for key := range m {
		if !strings.HasPrefix(key, "$") {
			return nil, false
		}
	}
	return m, true
}
