package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/me/dealerdash/pkg/model"
)

// fakeLister is a controllable ListFunc. Queries whose search term has a gate
// block until the gate is closed, which lets tests force out-of-order
// completion.
type fakeLister struct {
	mu        sync.Mutex
	calls     []model.ListQuery
	completed int
	gates     map[string]chan struct{}
	fail      error
}

func newFakeLister() *fakeLister {
	return &fakeLister{gates: make(map[string]chan struct{})}
}

func (f *fakeLister) gate(search string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[search] = ch
	return ch
}

func (f *fakeLister) setFail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeLister) completedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

func (f *fakeLister) list(ctx context.Context, q model.ListQuery) (*model.Page[model.Vehicle], error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	gate := f.gates[q.Search]
	fail := f.fail
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	defer func() {
		f.mu.Lock()
		f.completed++
		f.mu.Unlock()
	}()

	if fail != nil {
		return nil, fail
	}

	// One synthetic vehicle whose ID names the query that produced it.
	return &model.Page[model.Vehicle]{
		Items: []model.Vehicle{{ID: fmt.Sprintf("veh_%s_p%d", q.Search, q.Page)}},
		Pagination: model.Pagination{Page: q.Page, Pages: 1, Total: 1},
	}, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached within deadline")
}

func settle(t *testing.T, c *Controller[model.Vehicle]) State[model.Vehicle] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	return c.Snapshot()
}

func TestInitialFetch(t *testing.T) {
	f := newFakeLister()
	c := New(f.list, model.ListQuery{Page: 1, Limit: 20})
	defer c.Close()

	st := settle(t, c)
	if st.Data == nil || len(st.Data.Items) != 1 {
		t.Fatalf("data = %+v, want one item", st.Data)
	}
	if f.callCount() != 1 {
		t.Errorf("calls = %d, want 1", f.callCount())
	}
}

// Scenario B / P1: the slower response for an older query state must never
// overwrite the result of a newer one, even when it arrives later.
func TestStaleResponseDiscarded(t *testing.T) {
	f := newFakeLister()
	toyotaGate := f.gate("toyota")
	hondaGate := f.gate("honda")

	c := New(f.list, model.ListQuery{Page: 1, Limit: 20})
	defer c.Close()
	settle(t, c)

	c.SetSearch("toyota")
	c.SetSearch("honda")

	// Let honda (the newer query) complete first.
	close(hondaGate)
	st := settle(t, c)
	if st.Data.Items[0].ID != "veh_honda_p1" {
		t.Fatalf("data = %s, want honda result", st.Data.Items[0].ID)
	}

	// Now the stale toyota response trickles in; it must be discarded.
	close(toyotaGate)
	waitFor(t, func() bool { return f.completedCount() == 3 })

	st = c.Snapshot()
	if st.Data.Items[0].ID != "veh_honda_p1" {
		t.Errorf("data = %s after stale arrival, want honda result", st.Data.Items[0].ID)
	}
	if st.Loading {
		t.Error("loading should be false after latest fetch settled")
	}
}

func TestEachMutationIssuesOneFetch(t *testing.T) {
	f := newFakeLister()
	c := New(f.list, model.ListQuery{Page: 1, Limit: 20})
	defer c.Close()
	settle(t, c)

	c.SetPage(2)
	settle(t, c)
	c.SetLimit(50)
	settle(t, c)
	c.SetFilter("statusId", "st_1")
	settle(t, c)

	if got := f.callCount(); got != 4 {
		t.Errorf("calls = %d, want 4 (initial + one per mutation)", got)
	}

	// Each fetch must reflect the full current state, not a stale snapshot.
	f.mu.Lock()
	last := f.calls[len(f.calls)-1]
	f.mu.Unlock()
	if last.Limit != 50 || last.Filter("statusId") != "st_1" {
		t.Errorf("last query = %+v, want limit 50 and statusId filter", last)
	}
}

func TestSearchResetsPage(t *testing.T) {
	f := newFakeLister()
	c := New(f.list, model.ListQuery{Page: 7, Limit: 20})
	defer c.Close()
	settle(t, c)

	c.SetSearch("corolla")
	st := settle(t, c)
	if st.Query.Page != 1 {
		t.Errorf("page = %d after search change, want 1", st.Query.Page)
	}

	c.SetFilter("makeId", "mk_1")
	c.SetPage(3)
	c.SetLimit(10)
	st = settle(t, c)
	if st.Query.Page != 1 {
		t.Errorf("page = %d after limit change, want 1", st.Query.Page)
	}
}

// P3: refetch with unchanged state issues a new request but yields the same data.
func TestRefetchIdempotent(t *testing.T) {
	f := newFakeLister()
	c := New(f.list, model.ListQuery{Page: 1, Limit: 20})
	defer c.Close()
	first := settle(t, c)

	c.Refetch()
	second := settle(t, c)
	c.Refetch()
	third := settle(t, c)

	if f.callCount() != 3 {
		t.Errorf("calls = %d, want 3", f.callCount())
	}
	if second.Data.Items[0].ID != first.Data.Items[0].ID || third.Data.Items[0].ID != first.Data.Items[0].ID {
		t.Error("refetch changed data against a stable backend")
	}
	if !second.Query.Equal(first.Query) {
		t.Errorf("refetch changed query: %+v vs %+v", second.Query, first.Query)
	}
}

// P4: a failed fetch keeps the previous data so the UI does not flash empty.
func TestErrorRetainsStaleData(t *testing.T) {
	f := newFakeLister()
	c := New(f.list, model.ListQuery{Page: 1, Limit: 20})
	defer c.Close()
	healthy := settle(t, c)

	f.setFail(&model.APIError{Code: model.ErrUnavailable, Message: "dealer API unreachable"})
	c.Refetch()
	st := settle(t, c)

	if st.Err != "dealer API unreachable" {
		t.Errorf("err = %q, want unreachable message", st.Err)
	}
	if st.Data == nil || st.Data.Items[0].ID != healthy.Data.Items[0].ID {
		t.Errorf("data = %+v, want previous page retained", st.Data)
	}

	// Recovery clears the error.
	f.setFail(nil)
	c.Refetch()
	st = settle(t, c)
	if st.Err != "" {
		t.Errorf("err = %q after recovery, want empty", st.Err)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	f := newFakeLister()
	gate := f.gate("stuck")
	defer close(gate)

	c := New(f.list, model.ListQuery{Page: 1, Limit: 20})
	defer c.Close()
	settle(t, c)

	c.SetSearch("stuck")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := c.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("wait err = %v, want deadline exceeded", err)
	}
}

func TestSupersededFetchContextCanceled(t *testing.T) {
	var mu sync.Mutex
	var firstCtx context.Context

	list := func(ctx context.Context, q model.ListQuery) (*model.Page[model.Vehicle], error) {
		mu.Lock()
		if firstCtx == nil {
			firstCtx = ctx
		}
		mu.Unlock()
		return &model.Page[model.Vehicle]{}, nil
	}

	c := New(list, model.ListQuery{Page: 1, Limit: 20})
	defer c.Close()
	c.SetPage(2)
	settle(t, c)

	mu.Lock()
	ctx := firstCtx
	mu.Unlock()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Error("superseded fetch context was not canceled")
	}
}

func TestCloseStopsFetches(t *testing.T) {
	f := newFakeLister()
	c := New(f.list, model.ListQuery{Page: 1, Limit: 20})
	settle(t, c)

	c.Close()
	c.SetPage(2)
	c.Refetch()
	if got := f.callCount(); got != 1 {
		t.Errorf("calls = %d after close, want 1", got)
	}
}
