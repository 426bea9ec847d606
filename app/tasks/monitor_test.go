package tasks

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lysyi3m/crypto-alerts/app/alerts"
	"github.com/lysyi3m/crypto-alerts/app/analysis"
	"github.com/lysyi3m/crypto-alerts/app/news"
	"github.com/lysyi3m/crypto-alerts/app/sources"
)

type mockSource struct {
	*sources.Base
	items  []news.Item
	mu     sync.Mutex
	closed bool
}

func newMockSource(name string, items ...news.Item) *mockSource {
	return &mockSource{Base: sources.NewBase(name, nil, 0), items: items}
}

func (m *mockSource) Fetch(ctx context.Context) []news.Item {
	return m.FilterRelevant(m.items, nil)
}

func (m *mockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSource) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// mockAnalyzer scores items by title and panics on titles containing "boom".
type mockAnalyzer struct {
	mu     sync.Mutex
	scores map[string]int
	calls  []string
}

func (m *mockAnalyzer) Analyze(ctx context.Context, title, content, source string) analysis.Assessment {
	m.mu.Lock()
	m.calls = append(m.calls, title)
	m.mu.Unlock()

	if strings.Contains(title, "boom") {
		panic("analyzer exploded")
	}

	a := analysis.Minimal()
	if score, ok := m.scores[title]; ok {
		a.Importance = score
	}
	a.Sentiment = analysis.SentimentBullish
	return a
}

func (m *mockAnalyzer) Provider() string {
	return "mock"
}

func (m *mockAnalyzer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []*alerts.Alert
}

func (r *recordingNotifier) Notify(ctx context.Context, alert *alerts.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
}

func newTestItem(title, source string) news.Item {
	published := time.Now()
	return news.NewItem(title, "Bitcoin market update", "https://example.com/"+title, source, &published, "")
}

func newTestStore(t *testing.T) *alerts.Store {
	t.Helper()

	store, err := alerts.NewStore(t.TempDir(), 7, nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read alerts dir: %v", err)
	}
	return len(entries)
}

func TestRunCycle_ItemFailureIsIsolated(t *testing.T) {
	src := newMockSource("src",
		newTestItem("first", "src"),
		newTestItem("boom", "src"),
		newTestItem("third", "src"),
	)
	analyzer := &mockAnalyzer{scores: map[string]int{"first": 3, "third": 3}}

	monitor := NewMonitor([]sources.Source{src}, analyzer, newTestStore(t), nil, Options{})

	cycle := monitor.RunCycle(context.Background())

	if cycle.Fetched != 3 {
		t.Errorf("Expected 3 fetched items, got %d", cycle.Fetched)
	}
	if cycle.Analyzed != 2 {
		t.Errorf("Expected 2 analyzed items, got %d", cycle.Analyzed)
	}
	if cycle.Failed != 1 {
		t.Errorf("Expected 1 failed item, got %d", cycle.Failed)
	}
	if analyzer.callCount() != 3 {
		t.Errorf("Expected analyzer to be called for every item, got %d calls", analyzer.callCount())
	}
}

func TestRunCycle_SecondCycleSkipsSeenItems(t *testing.T) {
	item := newTestItem("Bitcoin ETF approved", "src")
	src := newMockSource("src", item)
	analyzer := &mockAnalyzer{scores: map[string]int{}}

	monitor := NewMonitor([]sources.Source{src}, analyzer, newTestStore(t), nil, Options{})

	first := monitor.RunCycle(context.Background())
	second := monitor.RunCycle(context.Background())

	if first.Fetched != 1 {
		t.Errorf("Expected first cycle to fetch 1 item, got %d", first.Fetched)
	}
	if second.Fetched != 0 {
		t.Errorf("Expected second cycle to fetch nothing, got %d", second.Fetched)
	}
	if analyzer.callCount() != 1 {
		t.Errorf("Expected item to be analyzed once, got %d", analyzer.callCount())
	}
	if second.ID != first.ID+1 {
		t.Errorf("Expected sequential cycle ids, got %d and %d", first.ID, second.ID)
	}
}

func TestRunCycle_AlertsOnlyAtThreshold(t *testing.T) {
	src := newMockSource("src",
		newTestItem("minor", "src"),
		newTestItem("edge", "src"),
		newTestItem("major", "src"),
	)
	analyzer := &mockAnalyzer{scores: map[string]int{"minor": 6, "edge": 7, "major": 9}}
	store := newTestStore(t)
	notifier := &recordingNotifier{}

	monitor := NewMonitor([]sources.Source{src}, analyzer, store, notifier, Options{})

	cycle := monitor.RunCycle(context.Background())

	if cycle.Alerts != 2 {
		t.Errorf("Expected 2 alerts, got %d", cycle.Alerts)
	}
	if len(notifier.alerts) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(notifier.alerts))
	}
	for _, alert := range notifier.alerts {
		if alert.Importance < 7 {
			t.Errorf("Alert below threshold was emitted: %+v", alert)
		}
	}
	if got := countFiles(t, store.Dir()); got != 2 {
		t.Errorf("Expected 2 alert files, got %d", got)
	}

	last := monitor.LastCycle()
	if last == nil || last.ID != cycle.ID {
		t.Errorf("Expected LastCycle to return the completed cycle, got %+v", last)
	}
}

func TestRunCycle_CancelledBeforeItems(t *testing.T) {
	src := newMockSource("src", newTestItem("one", "src"), newTestItem("two", "src"))
	analyzer := &mockAnalyzer{scores: map[string]int{}}

	monitor := NewMonitor([]sources.Source{src}, analyzer, newTestStore(t), nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cycle := monitor.RunCycle(ctx)

	if cycle.Fetched != 2 {
		t.Errorf("Expected fetch to complete despite cancellation, got %d items", cycle.Fetched)
	}
	if !cycle.Interrupted {
		t.Error("Expected cycle to be marked as interrupted")
	}
	if analyzer.callCount() != 0 {
		t.Errorf("Expected no items to be analyzed, got %d", analyzer.callCount())
	}
}

func TestRun_StopsDuringSleep(t *testing.T) {
	src := newMockSource("src", newTestItem("one", "src"))
	analyzer := &mockAnalyzer{scores: map[string]int{}}

	monitor := NewMonitor([]sources.Source{src}, analyzer, newTestStore(t), nil, Options{
		Interval:   time.Hour,
		SleepSlice: 10 * time.Millisecond,
	})

	if monitor.State() != StateIdle {
		t.Errorf("Expected initial state %q, got %q", StateIdle, monitor.State())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- monitor.Run(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for monitor.State() != StateSleeping {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("Monitor never reached sleeping state, last state %q", monitor.State())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Monitor did not stop after cancellation")
	}

	if monitor.State() != StateStopped {
		t.Errorf("Expected state %q, got %q", StateStopped, monitor.State())
	}
	if !src.isClosed() {
		t.Error("Expected sources to be closed on shutdown")
	}
	if monitor.LastCycle() == nil {
		t.Error("Expected one completed cycle")
	}
}

func TestCycle_GetDuration(t *testing.T) {
	cycle := &Cycle{}
	if cycle.GetDuration() != 0 {
		t.Errorf("Expected zero duration for unstarted cycle, got %v", cycle.GetDuration())
	}

	cycle = NewCycle(1)
	cycle.StartedAt = time.Now().Add(-time.Second)
	if cycle.GetDuration() < time.Second {
		t.Errorf("Expected at least one second, got %v", cycle.GetDuration())
	}
}
