package sqlite

import (
	"context"
	"reflect"
	"testing"
)

func TestAddProgressIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, testUser("alice"))
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := store.AddProgress(ctx, alice, "sweden"); err != nil {
			t.Fatalf("add progress attempt %d: %v", i, err)
		}
	}

	countries, err := store.ListProgress(ctx, alice)
	if err != nil {
		t.Fatalf("list progress: %v", err)
	}
	if len(countries) != 1 || countries[0] != "sweden" {
		t.Fatalf("progress = %v, want exactly one sweden row", countries)
	}
}

func TestRemoveProgressIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, testUser("alice"))
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}

	// Removing a never-added country is still success.
	if err := store.RemoveProgress(ctx, alice, "norway"); err != nil {
		t.Fatalf("remove absent progress: %v", err)
	}

	if err := store.AddProgress(ctx, alice, "norway"); err != nil {
		t.Fatalf("add progress: %v", err)
	}
	if err := store.RemoveProgress(ctx, alice, "norway"); err != nil {
		t.Fatalf("remove progress: %v", err)
	}

	ok, err := store.HasProgress(ctx, alice, "norway")
	if err != nil {
		t.Fatalf("has progress: %v", err)
	}
	if ok {
		t.Fatal("expected norway to be removed")
	}
}

func TestListProgressSortsLexicographically(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, testUser("alice"))
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}

	for _, country := range []string{"sweden", "denmark", "norway"} {
		if err := store.AddProgress(ctx, alice, country); err != nil {
			t.Fatalf("add %s: %v", country, err)
		}
	}

	countries, err := store.ListProgress(ctx, alice)
	if err != nil {
		t.Fatalf("list progress: %v", err)
	}
	want := []string{"denmark", "norway", "sweden"}
	if !reflect.DeepEqual(countries, want) {
		t.Fatalf("progress = %v, want %v", countries, want)
	}
}

func TestProgressIsScopedPerUser(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, testUser("alice"))
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := store.CreateUser(ctx, testUser("bob"))
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}

	if err := store.AddProgress(ctx, alice, "sweden"); err != nil {
		t.Fatalf("add progress: %v", err)
	}

	ok, err := store.HasProgress(ctx, bob, "sweden")
	if err != nil {
		t.Fatalf("has progress: %v", err)
	}
	if ok {
		t.Fatal("expected bob to lack alice's unlock")
	}

	countries, err := store.ListProgress(ctx, bob)
	if err != nil {
		t.Fatalf("list progress: %v", err)
	}
	if len(countries) != 0 {
		t.Fatalf("bob progress = %v, want empty", countries)
	}
}

func TestEmptyCountryIsOrdinaryToken(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, testUser("alice"))
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}

	ok, err := store.HasProgress(ctx, alice, "")
	if err != nil {
		t.Fatalf("has empty token: %v", err)
	}
	if ok {
		t.Fatal("expected empty token to start absent")
	}

	if err := store.AddProgress(ctx, alice, ""); err != nil {
		t.Fatalf("add empty token: %v", err)
	}
	ok, err = store.HasProgress(ctx, alice, "")
	if err != nil {
		t.Fatalf("has empty token after add: %v", err)
	}
	if !ok {
		t.Fatal("expected empty token to be recorded")
	}

	if err := store.RemoveProgress(ctx, alice, ""); err != nil {
		t.Fatalf("remove empty token: %v", err)
	}
	ok, err = store.HasProgress(ctx, alice, "")
	if err != nil {
		t.Fatalf("has empty token after remove: %v", err)
	}
	if ok {
		t.Fatal("expected empty token to be removed")
	}
}
