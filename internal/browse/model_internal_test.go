package browse

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"marquee/internal/catalog"
	"marquee/internal/testsupport"
)

// The debounce timer can fire and then wait on the model lock while the
// query is being cleared. That search must never be sent or shown.
func TestClearWhileFiredSearchWaitsIsNotDispatched(t *testing.T) {
	cat := testsupport.NewFakeCatalog()
	cat.Popular = []catalog.MediaRecord{testsupport.Media(7, "Popular")}
	cat.Search["abc"] = []catalog.MediaRecord{testsupport.Media(1, "Alpha")}
	clock := testsupport.NewFakeClock()
	m := New(context.Background(), cat, Options{Debounce: 500 * time.Millisecond, Clock: clock})
	t.Cleanup(m.Close)
	if err := m.LoadPopular(context.Background()); err != nil {
		t.Fatalf("LoadPopular: %v", err)
	}

	m.SetQuery("abc")
	m.mu.Lock()
	handle := m.pending
	done := make(chan struct{})
	go func() {
		defer close(done)
		clock.Advance(500 * time.Millisecond)
	}()
	deadline := time.Now().Add(2 * time.Second)
	for handle.Pending() {
		if time.Now().After(deadline) {
			m.mu.Unlock()
			t.Fatal("debounce timer never fired")
		}
		time.Sleep(time.Millisecond)
	}
	m.setQueryLocked("")
	m.mu.Unlock()
	<-done

	st := m.State()
	if st.Mode != ModePopular || st.Query != "" || st.Loading {
		t.Fatalf("expected settled popular view, got %+v", st)
	}
	got := make([]int64, 0, len(st.Results))
	for _, r := range st.Results {
		got = append(got, r.ID)
	}
	if diff := cmp.Diff([]int64{7}, got); diff != "" {
		t.Fatalf("popular view overwritten (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"popular"}, cat.Calls()); diff != "" {
		t.Fatalf("cleared search was still sent (-want +got):\n%s", diff)
	}
}
