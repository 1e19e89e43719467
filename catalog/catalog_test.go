package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/store"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, "id,title,category,color,price,popularity,cluster\n"+
		"1,Summer Dress,Party,Red,49.99,120,2\n"+
		"2,Evening Gown,Formal,Blue,199.99,80,1\n")

	c, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	p, ok := c.ByID(1)
	if !ok {
		t.Fatal("ByID(1) not found")
	}
	if p.Title != "Summer Dress" || p.Color != "Red" || p.Price != 49.99 {
		t.Errorf("product 1 = %+v", p)
	}
	if !p.HasPopularity || p.Popularity != 120 {
		t.Errorf("product 1 popularity = (%v,%v)", p.Popularity, p.HasPopularity)
	}
	if !p.HasSegment || p.Segment != 2 {
		t.Errorf("product 1 segment = (%v,%v)", p.Segment, p.HasSegment)
	}

	if c.Signal() != core.SignalPopularity {
		t.Errorf("Signal() = %v, want popularity", c.Signal())
	}
	if !c.HasSegments() {
		t.Error("HasSegments() = false, want true")
	}
}

func TestLoadCSV_OptionalColumnsAbsent(t *testing.T) {
	path := writeCSV(t, "id,title,category,color,price\n"+
		"1,Summer Dress,Party,Red,49.99\n")

	c, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if c.Signal() != core.SignalNone {
		t.Errorf("Signal() = %v, want none", c.Signal())
	}
	if c.HasSegments() {
		t.Error("HasSegments() = true, want false")
	}
}

func TestLoadCSV_RatingOnly(t *testing.T) {
	path := writeCSV(t, "id,title,category,color,price,rating\n"+
		"1,Summer Dress,Party,Red,49.99,4.5\n")

	c, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if c.Signal() != core.SignalRating {
		t.Errorf("Signal() = %v, want rating", c.Signal())
	}
}

func TestLoadCSV_MissingFileIsUnavailable(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	if !core.IsUnavailable(err) {
		t.Errorf("missing catalog: err = %v, want UNAVAILABLE", err)
	}
}

func TestLoadCSV_MissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, "id,title,color,price\n1,Dress,Red,10\n")
	if _, err := LoadCSV(path); err == nil {
		t.Error("LoadCSV() without category column should fail")
	}
}

func TestCatalog_StoreRoundTrip(t *testing.T) {
	ms := store.NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	orig := New([]*core.Product{
		{ID: 1, Title: "Summer Dress", Category: "Party", Color: "Red", Price: 50, Rating: 4.2, HasRating: true},
		{ID: 2, Title: "Evening Gown", Category: "Formal", Color: "Blue", Price: 200, Rating: 4.8, HasRating: true},
	})
	if err := orig.SaveToStore(ctx, ms, "catalog:snapshot"); err != nil {
		t.Fatalf("SaveToStore() error = %v", err)
	}

	loaded, err := FromStore(ctx, ms, "catalog:snapshot")
	if err != nil {
		t.Fatalf("FromStore() error = %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", loaded.Len())
	}
	if loaded.Signal() != core.SignalRating {
		t.Errorf("Signal() = %v, want rating", loaded.Signal())
	}

	_, err = FromStore(ctx, ms, "catalog:missing")
	if !core.IsUnavailable(err) {
		t.Errorf("missing key: err = %v, want UNAVAILABLE", err)
	}
}
