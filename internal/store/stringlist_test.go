package store

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestDedupeStringsKeepsFirstOccurrence(t *testing.T) {
	got := DedupeStrings([]string{"b", "a", "b", " ", "a", "c"})
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DedupeStrings = %v, want %v", got, want)
	}
}

func TestLoadStringListMissingFile(t *testing.T) {
	got, err := LoadStringList(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestPromoteFront(t *testing.T) {
	p := filepath.Join(t.TempDir(), "list.json")
	if err := SaveStringList(p, []string{"a", "b", "c"}); err != nil {
		t.Fatal(err)
	}
	got, err := PromoteFront(p, "c", 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("PromoteFront = %v, want %v", got, want)
	}
	onDisk, err := LoadStringList(p)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(onDisk, want) {
		t.Fatalf("persisted = %v, want %v", onDisk, want)
	}
}
