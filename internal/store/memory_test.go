package store

import (
	"sync"
	"testing"
	"time"
)

func TestNewMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if store == nil {
		t.Fatal("NewMemoryStore() = nil")
	}
	if len(store.GetAll()) != 0 {
		t.Errorf("GetAll() = %v items, want 0", len(store.GetAll()))
	}
}

func TestMemoryStore_Update(t *testing.T) {
	store := NewMemoryStore()

	store.Update(PanelView{
		Name:      "stats",
		Kind:      "stats",
		State:     "loaded",
		HTML:      "<h1>Latest Stats</h1>",
		UpdatedAt: time.Now(),
	})

	got, ok := store.Get("stats")
	if !ok {
		t.Fatal("Get(stats) not found")
	}
	if got.State != "loaded" {
		t.Errorf("Get(stats).State = %v, want loaded", got.State)
	}

	if _, ok := store.Get("missing"); ok {
		t.Error("Get(missing) should not be found")
	}
}

func TestMemoryStore_UpdateOverwrites(t *testing.T) {
	store := NewMemoryStore()

	store.Update(PanelView{Name: "audit-hotel_room", State: "loaded", Token: "12"})
	store.Update(PanelView{Name: "audit-hotel_room", State: "failed", Token: "12"})

	all := store.GetAll()
	if len(all) != 1 {
		t.Fatalf("GetAll() = %v items, want 1", len(all))
	}
	if all[0].State != "failed" {
		t.Errorf("GetAll()[0].State = %v, want failed", all[0].State)
	}
}

func TestMemoryStore_GetAllOrdered(t *testing.T) {
	store := NewMemoryStore()

	store.Update(PanelView{Name: "audit-b", Order: 2})
	store.Update(PanelView{Name: "stats", Order: 0})
	store.Update(PanelView{Name: "audit-a", Order: 2})
	store.Update(PanelView{Name: "event_stats", Order: 1})

	want := []string{"stats", "event_stats", "audit-a", "audit-b"}
	all := store.GetAll()
	if len(all) != len(want) {
		t.Fatalf("GetAll() = %v items, want %v", len(all), len(want))
	}
	for i, name := range want {
		if all[i].Name != name {
			t.Errorf("GetAll()[%d].Name = %v, want %v", i, all[i].Name, name)
		}
	}
}

func TestMemoryStore_Subscribe(t *testing.T) {
	store := NewMemoryStore()

	ch := store.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() = nil")
	}

	go func() {
		store.Update(PanelView{Name: "stats", State: "loaded"})
	}()

	select {
	case view := <-ch:
		if view.Name != "stats" {
			t.Errorf("received Name = %v, want stats", view.Name)
		}
	case <-time.After(1 * time.Second):
		t.Error("Subscribe() channel did not receive update")
	}
}

func TestMemoryStore_MultipleSubscribers(t *testing.T) {
	store := NewMemoryStore()

	ch1 := store.Subscribe()
	ch2 := store.Subscribe()
	ch3 := store.Subscribe()

	go func() {
		store.Update(PanelView{Name: "stats", State: "loaded"})
	}()

	received := 0
	timeout := time.After(1 * time.Second)
	for received < 3 {
		select {
		case <-ch1:
			received++
		case <-ch2:
			received++
		case <-ch3:
			received++
		case <-timeout:
			t.Fatalf("Only received %d/3 updates", received)
		}
	}
}

func TestMemoryStore_Unsubscribe(t *testing.T) {
	store := NewMemoryStore()

	ch := store.Subscribe()
	store.Unsubscribe(ch)
	store.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Unsubscribe() channel should be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Unsubscribe() channel should be closed immediately")
	}
}

func TestMemoryStore_SlowSubscriberDoesNotBlock(t *testing.T) {
	store := NewMemoryStore()

	_ = store.Subscribe() // never read
	ch2 := store.Subscribe()

	done := make(chan bool)
	go func() {
		for i := 0; i < 2*subscriberBuffer; i++ {
			store.Update(PanelView{Name: "stats", State: "loaded"})
		}
		done <- true
	}()

	go func() {
		for range ch2 {
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("Update() blocked on slow subscriber")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	const numGoroutines = 10
	const numUpdates = 100

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numUpdates; j++ {
				store.Update(PanelView{Name: "stats", State: "loaded"})
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numUpdates; j++ {
				_ = store.GetAll()
				_, _ = store.Get("stats")
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := store.Subscribe()
			time.Sleep(10 * time.Millisecond)
			store.Unsubscribe(ch)
		}()
	}

	wg.Wait()
}
