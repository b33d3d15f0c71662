package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"kriptoradar/market"
)

type fakeMarket struct {
	mu        sync.Mutex
	snapCalls int
	snapID    string
	snap      *market.Snapshot
	snapErr   error

	entered chan struct{} // signalled when Snapshot is entered
	release chan struct{} // blocks Snapshot until closed

	listing    []market.Coin
	listingErr error
	results    []market.SearchResult
}

func (f *fakeMarket) Snapshot(ctx context.Context, id string) (*market.Snapshot, error) {
	f.mu.Lock()
	f.snapCalls++
	f.snapID = id
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.snapErr != nil {
		return nil, f.snapErr
	}
	return f.snap, nil
}

func (f *fakeMarket) Markets(ctx context.Context, limit int, window string) ([]market.Coin, error) {
	return f.listing, f.listingErr
}

func (f *fakeMarket) Search(ctx context.Context, query string) ([]market.SearchResult, error) {
	return f.results, nil
}

func (f *fakeMarket) TopGainers(ctx context.Context) ([]market.Coin, error) {
	return f.listing, f.listingErr
}

func (f *fakeMarket) LocalCurrency() string { return "try" }

func (f *fakeMarket) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapCalls
}

func run(t *testing.T, s *Service, user int64, name string, args ...string) string {
	t.Helper()
	cmd := s.Registry().Get(name)
	if cmd == nil {
		t.Fatalf("command %q not registered", name)
	}
	reply, err := cmd.Handler(&Context{Ctx: context.Background(), User: user, Args: args})
	if err != nil {
		t.Fatalf("command %q: %v", name, err)
	}
	return reply
}

func TestCommandsRegistered(t *testing.T) {
	s := NewService(&fakeMarket{}, NewInflight(), 0)

	for _, name := range []string{"start", "help", "fiyat", "btc", "eth", "top10", "ara", "yukselenler"} {
		if s.Registry().Get(name) == nil {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestStartAndHelp(t *testing.T) {
	s := NewService(&fakeMarket{}, NewInflight(), 0)

	if reply := run(t, s, 1, "start"); !strings.Contains(reply, "hoş geldin") {
		t.Errorf("start reply: %q", reply)
	}
	if reply := run(t, s, 1, "help"); !strings.Contains(reply, "/fiyat") {
		t.Errorf("help reply: %q", reply)
	}
}

func TestPriceCommand(t *testing.T) {
	f := &fakeMarket{snap: &market.Snapshot{USD: 65000.5, Change24h: 2.35}}
	s := NewService(f, NewInflight(), 0)

	reply := run(t, s, 1, "fiyat", "btc")

	if !strings.Contains(reply, "BTC Fiyat Bilgileri") {
		t.Errorf("reply missing title: %q", reply)
	}
	if !strings.Contains(reply, "$65,000.50") {
		t.Errorf("reply missing price: %q", reply)
	}
	if f.snapID != "bitcoin" {
		t.Errorf("fetched %q, want bitcoin (alias resolution)", f.snapID)
	}
}

func TestPriceUsage(t *testing.T) {
	s := NewService(&fakeMarket{}, NewInflight(), 0)

	if reply := run(t, s, 1, "fiyat"); reply != msgPriceUsage {
		t.Errorf("reply = %q, want usage help", reply)
	}
}

func TestPriceNotFound(t *testing.T) {
	f := &fakeMarket{snapErr: market.ErrNotFound}
	s := NewService(f, NewInflight(), 0)

	if reply := run(t, s, 1, "fiyat", "nosuchcoin"); reply != msgErrorNotFound {
		t.Errorf("reply = %q, want not-found text", reply)
	}
}

func TestPriceUnavailable(t *testing.T) {
	f := &fakeMarket{snapErr: market.ErrUnavailable}
	s := NewService(f, NewInflight(), 0)

	if reply := run(t, s, 1, "fiyat", "btc"); reply != msgErrorAPI {
		t.Errorf("reply = %q, want generic error text", reply)
	}
}

func TestShortcutCommands(t *testing.T) {
	f := &fakeMarket{snap: &market.Snapshot{USD: 1}}
	s := NewService(f, NewInflight(), 0)

	run(t, s, 1, "btc")
	if f.snapID != "bitcoin" {
		t.Errorf("/btc fetched %q", f.snapID)
	}
	run(t, s, 1, "eth")
	if f.snapID != "ethereum" {
		t.Errorf("/eth fetched %q", f.snapID)
	}
}

// TestInflightGuard checks a second request from a busy user is
// rejected without a fetch and the guard clears once the first request
// finishes, on success and on failure alike.
func TestInflightGuard(t *testing.T) {
	f := &fakeMarket{
		snap:    &market.Snapshot{USD: 1},
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s := NewService(f, NewInflight(), 0)

	done := make(chan string)
	go func() {
		cmd := s.Registry().Get("fiyat")
		reply, _ := cmd.Handler(&Context{Ctx: context.Background(), User: 7, Args: []string{"btc"}})
		done <- reply
	}()

	<-f.entered // first request is now inside the fetch

	if reply := run(t, s, 7, "fiyat", "eth"); reply != msgBusy {
		t.Errorf("concurrent reply = %q, want busy notice", reply)
	}
	if f.calls() != 1 {
		t.Errorf("concurrent request reached the fetch pipeline (%d calls)", f.calls())
	}

	close(f.release)
	if reply := <-done; !strings.Contains(reply, "Fiyat") {
		t.Errorf("first reply = %q", reply)
	}

	// guard must be clear again
	f.entered = nil
	f.release = nil
	if reply := run(t, s, 7, "fiyat", "btc"); reply == msgBusy {
		t.Error("guard not released after completion")
	}
}

// TestInflightGuardClearsOnFailure ensures the error path releases the
// guard too.
func TestInflightGuardClearsOnFailure(t *testing.T) {
	f := &fakeMarket{snapErr: market.ErrUnavailable}
	s := NewService(f, NewInflight(), 0)

	run(t, s, 3, "fiyat", "btc")
	if reply := run(t, s, 3, "fiyat", "btc"); reply == msgBusy {
		t.Error("guard not released after a failed request")
	}
}

func TestPriceCacheReusesReply(t *testing.T) {
	f := &fakeMarket{snap: &market.Snapshot{USD: 42}}
	s := NewService(f, NewInflight(), time.Minute)

	first := run(t, s, 1, "fiyat", "btc")
	second := run(t, s, 1, "fiyat", "btc")

	if first != second {
		t.Error("cached reply differs")
	}
	if f.calls() != 1 {
		t.Errorf("made %d fetches, want 1 (cache)", f.calls())
	}
}

func TestTop10(t *testing.T) {
	f := &fakeMarket{listing: []market.Coin{
		{Name: "Bitcoin", Symbol: "btc", Price: 65000, Change24h: 1.2},
	}}
	s := NewService(f, NewInflight(), 0)

	if reply := run(t, s, 1, "top10"); !strings.Contains(reply, "Bitcoin (BTC)") {
		t.Errorf("reply = %q", reply)
	}
}

func TestTop10Unavailable(t *testing.T) {
	f := &fakeMarket{listingErr: market.ErrUnavailable}
	s := NewService(f, NewInflight(), 0)

	if reply := run(t, s, 1, "top10"); reply != msgErrorAPI {
		t.Errorf("reply = %q, want generic error text", reply)
	}
}

func TestSearch(t *testing.T) {
	f := &fakeMarket{results: []market.SearchResult{{Name: "Cardano", Symbol: "ada"}}}
	s := NewService(f, NewInflight(), 0)

	if reply := run(t, s, 1, "ara", "card"); !strings.Contains(reply, "Cardano (ADA)") {
		t.Errorf("reply = %q", reply)
	}
	if reply := run(t, s, 1, "ara"); reply != msgAraUsage {
		t.Errorf("reply = %q, want usage help", reply)
	}
	f.results = nil
	if reply := run(t, s, 1, "ara", "zzz"); !strings.Contains(reply, "sonuç bulunamadı") {
		t.Errorf("reply = %q, want no-results text", reply)
	}
}

func TestGainers(t *testing.T) {
	f := &fakeMarket{listing: []market.Coin{
		{Symbol: "abc", Price: 1.5, Change1h: 20.5},
	}}
	s := NewService(f, NewInflight(), 0)

	if reply := run(t, s, 1, "yukselenler"); !strings.Contains(reply, "**ABC**: +%20.50") {
		t.Errorf("reply = %q", reply)
	}
}

func TestText(t *testing.T) {
	f := &fakeMarket{snap: &market.Snapshot{USD: 65000}}
	s := NewService(f, NewInflight(), 0)
	ctx := &Context{Ctx: context.Background(), User: 1}

	// ticker-like text goes down the implicit price path
	reply, handled := s.Text(ctx, "btc")
	if !handled || !strings.Contains(reply, "Fiyat") {
		t.Errorf("Text(btc) = %q, %v", reply, handled)
	}

	// conversational text stays quiet
	if _, handled := s.Text(ctx, "hello there world"); handled {
		t.Error("conversational text should not be handled")
	}

	// unrecognized single word gets a hint
	reply, handled = s.Text(ctx, "123abc")
	if !handled || !strings.Contains(reply, "/fiyat") {
		t.Errorf("Text(123abc) = %q, %v", reply, handled)
	}

	// too short for anything
	if _, handled := s.Text(ctx, "a"); handled {
		t.Error("single letter should not be handled")
	}
}

func TestTextNotFoundMessage(t *testing.T) {
	f := &fakeMarket{snapErr: market.ErrNotFound}
	s := NewService(f, NewInflight(), 0)

	reply, handled := s.Text(&Context{Ctx: context.Background(), User: 1}, "unknowncoin")
	if !handled || !strings.Contains(reply, "bulunamadı") {
		t.Errorf("Text(unknowncoin) = %q, %v", reply, handled)
	}
}

func TestDispatch(t *testing.T) {
	f := &fakeMarket{snap: &market.Snapshot{USD: 1}}
	s := NewService(f, NewInflight(), 0)
	ctx := &Context{Ctx: context.Background(), User: 1}

	if _, handled := s.Registry().Dispatch(ctx, "/fiyat btc"); !handled {
		t.Error("known command not dispatched")
	}
	if _, handled := s.Registry().Dispatch(ctx, "/unknowncmd"); handled {
		t.Error("unknown command should not be handled")
	}
	if _, handled := s.Registry().Dispatch(ctx, "plain text"); handled {
		t.Error("plain text should not be dispatched")
	}
}
