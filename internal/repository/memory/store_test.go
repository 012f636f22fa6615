package memory_test

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/dairyflow/internal/repository"
	"github.com/mamadbah2/dairyflow/internal/repository/memory"
)

type cow struct {
	ID     string  `bson:"_id"`
	Name   string  `bson:"name"`
	Status string  `bson:"status"`
	Yield  float64 `bson:"yield"`
	Notes  *string `bson:"notes,omitempty"`
}

func seedCows(t *testing.T, store *memory.Store) {
	t.Helper()
	docs := []any{
		cow{ID: "1", Name: "Bella", Status: "active", Yield: 28.5},
		cow{ID: "2", Name: "Daisy", Status: "dry", Yield: 0},
		cow{ID: "3", Name: "Rosie", Status: "active", Yield: 31},
		cow{ID: "4", Name: "Clover", Status: "sold", Yield: 12},
	}
	ids, err := store.InsertMany(context.Background(), "cows", docs)
	if err != nil {
		t.Fatalf("insert many: %v", err)
	}
	if len(ids) != 4 || ids[0] != "1" || ids[3] != "4" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestFindPreservesInsertionOrderAndFilters(t *testing.T) {
	store := memory.NewStore()
	seedCows(t, store)

	var active []cow
	if err := store.Find(context.Background(), "cows", bson.M{"status": "active"}, repository.FindOptions{}, &active); err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(active) != 2 || active[0].Name != "Bella" || active[1].Name != "Rosie" {
		t.Fatalf("unexpected active cows %+v", active)
	}

	var all []cow
	if err := store.Find(context.Background(), "cows", nil, repository.FindOptions{}, &all); err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 4 || all[1].Name != "Daisy" {
		t.Fatalf("unexpected order %+v", all)
	}
}

func TestFindOperatorsSortSkipLimit(t *testing.T) {
	store := memory.NewStore()
	seedCows(t, store)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter bson.M
		opts   repository.FindOptions
		want   []string
	}{
		{"in", bson.M{"status": bson.M{"$in": []string{"dry", "sold"}}}, repository.FindOptions{}, []string{"Daisy", "Clover"}},
		{"ne", bson.M{"status": bson.M{"$ne": "active"}}, repository.FindOptions{}, []string{"Daisy", "Clover"}},
		{"range", bson.M{"yield": bson.M{"$gte": 12, "$lt": 31}}, repository.FindOptions{}, []string{"Bella", "Clover"}},
		{"sort desc", nil, repository.FindOptions{Sort: bson.D{{Key: "yield", Value: -1}}}, []string{"Rosie", "Bella", "Clover", "Daisy"}},
		{"sort skip limit", nil, repository.FindOptions{Sort: bson.D{{Key: "name", Value: 1}}, Skip: 1, Limit: 2}, []string{"Clover", "Daisy"}},
		{"skip past end", nil, repository.FindOptions{Skip: 10}, nil},
		{"missing field", bson.M{"notes": bson.M{"$exists": false}}, repository.FindOptions{Limit: 1}, []string{"Bella"}},
	}

	for _, tc := range cases {
		var got []cow
		if err := store.Find(ctx, "cows", tc.filter, tc.opts, &got); err != nil {
			t.Fatalf("%s: find: %v", tc.name, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %d results, got %+v", tc.name, len(tc.want), got)
		}
		for i, name := range tc.want {
			if got[i].Name != name {
				t.Fatalf("%s: expected %s at %d, got %s", tc.name, name, i, got[i].Name)
			}
		}
	}
}

func TestFindProjection(t *testing.T) {
	store := memory.NewStore()
	seedCows(t, store)

	var docs []bson.M
	err := store.Find(context.Background(), "cows", bson.M{"_id": "1"}, repository.FindOptions{Projection: bson.M{"name": 1}}, &docs)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected one document, got %d", len(docs))
	}
	if _, ok := docs[0]["status"]; ok {
		t.Fatalf("status should have been projected out: %v", docs[0])
	}
	if docs[0]["name"] != "Bella" || docs[0]["_id"] != "1" {
		t.Fatalf("unexpected projection %v", docs[0])
	}
}

func TestFindOneNotFound(t *testing.T) {
	store := memory.NewStore()
	var got cow
	err := store.FindOne(context.Background(), "cows", bson.M{"_id": "nope"}, &got)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	store := memory.NewStore()
	seedCows(t, store)
	if _, err := store.InsertOne(context.Background(), "cows", cow{ID: "1", Name: "Again"}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestInsertAssignsObjectID(t *testing.T) {
	store := memory.NewStore()
	id, err := store.InsertOne(context.Background(), "misc", bson.M{"name": "no id"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(id) != 24 {
		t.Fatalf("expected hex object id, got %q", id)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	store := memory.NewStore()
	seedCows(t, store)
	ctx := context.Background()

	res, err := store.UpdateOne(ctx, "cows", bson.M{"_id": "2"}, bson.M{"$set": bson.M{"status": "active"}})
	if err != nil {
		t.Fatalf("update one: %v", err)
	}
	if res.MatchedCount != 1 || res.ModifiedCount != 1 {
		t.Fatalf("unexpected update result %+v", res)
	}

	res, err = store.UpdateMany(ctx, "cows", bson.M{"status": "active"}, bson.M{"$set": bson.M{"status": "active"}})
	if err != nil {
		t.Fatalf("update many: %v", err)
	}
	if res.MatchedCount != 3 || res.ModifiedCount != 0 {
		t.Fatalf("no-op update should match 3 and modify 0, got %+v", res)
	}

	if _, err := store.UpdateOne(ctx, "cows", nil, bson.M{"$inc": bson.M{"yield": 1}}); err == nil {
		t.Fatalf("expected unsupported operator error")
	}

	deleted, err := store.DeleteOne(ctx, "cows", bson.M{"status": "active"})
	if err != nil || deleted != 1 {
		t.Fatalf("delete one: deleted=%d err=%v", deleted, err)
	}
	deleted, err = store.DeleteMany(ctx, "cows", bson.M{"status": "active"})
	if err != nil || deleted != 2 {
		t.Fatalf("delete many: deleted=%d err=%v", deleted, err)
	}

	var rest []cow
	if err := store.Find(ctx, "cows", nil, repository.FindOptions{}, &rest); err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rest) != 1 || rest[0].Name != "Clover" {
		t.Fatalf("unexpected remaining documents %+v", rest)
	}
}

func TestReadsReturnCopies(t *testing.T) {
	store := memory.NewStore()
	note := "calm"
	if _, err := store.InsertOne(context.Background(), "cows", cow{ID: "1", Name: "Bella", Notes: &note}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	note = "changed"

	var got cow
	if err := store.FindOne(context.Background(), "cows", bson.M{"_id": "1"}, &got); err != nil {
		t.Fatalf("find one: %v", err)
	}
	if got.Notes == nil || *got.Notes != "calm" {
		t.Fatalf("stored document aliased caller memory: %+v", got)
	}
}
