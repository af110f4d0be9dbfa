package registry

import (
	"sync"
	"testing"
)

func TestRegisterAndGet(t *testing.T) {
	r := New[int]()
	r.Register(Info{ID: "b", Title: "Bee"}, 2)
	r.Register(Info{ID: "a", Title: "Ay"}, 1)

	got, err := r.Get("b")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != 2 {
		t.Errorf("Get(\"b\") = %d, expected 2", got)
	}

	if !r.Exists("a") {
		t.Error("Exists(\"a\") = false, expected true")
	}
	if r.Exists("c") {
		t.Error("Exists(\"c\") = true, expected false")
	}
}

func TestGetUnknown(t *testing.T) {
	r := New[string]()
	got, err := r.Get("missing")
	if err == nil {
		t.Fatal("Get() on unknown id should fail")
	}
	if got != "" {
		t.Errorf("Get() = %q, expected zero value", got)
	}
}

func TestListSorted(t *testing.T) {
	r := New[struct{}]()
	for _, id := range []string{"gate", "classic", "daily"} {
		r.Register(Info{ID: id}, struct{}{})
	}

	list := r.List()
	want := []string{"classic", "daily", "gate"}
	if len(list) != len(want) {
		t.Fatalf("List() returned %d items, expected %d", len(list), len(want))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("List()[%d].ID = %q, expected %q", i, list[i].ID, id)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := New[int]()
	r.Register(Info{ID: "x"}, 1)

	defer func() {
		if recover() == nil {
			t.Error("Register() with a duplicate id should panic")
		}
	}()
	r.Register(Info{ID: "x"}, 2)
}

func TestConcurrentAccess(t *testing.T) {
	r := New[int]()
	r.Register(Info{ID: "x"}, 1)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.List()
			_, _ = r.Get("x")
		}()
	}
	wg.Wait()
}
