package sources

import (
	"context"
	"sort"
	"testing"

	"github.com/lysyi3m/crypto-alerts/app/news"
)

type mockSource struct {
	*Base
	items []news.Item
	panic bool
}

func newMockSource(name string, items []news.Item, shouldPanic bool) *mockSource {
	return &mockSource{Base: NewBase(name, nil, 0), items: items, panic: shouldPanic}
}

func (m *mockSource) Fetch(ctx context.Context) []news.Item {
	if m.panic {
		panic("connection reset")
	}
	return m.FilterRelevant(m.items, nil)
}

func TestFetchAll_IsolatesFailures(t *testing.T) {
	good1 := newMockSource("good1", []news.Item{newTestItem("a", "u1", "good1")}, false)
	bad := newMockSource("bad", nil, true)
	good2 := newMockSource("good2", []news.Item{
		newTestItem("b", "u2", "good2"),
		newTestItem("c", "u3", "good2"),
	}, false)

	result := FetchAll(context.Background(), []Source{good1, bad, good2})

	if len(result.Items) != 3 {
		t.Fatalf("Expected 3 items from healthy sources, got %d", len(result.Items))
	}
	if len(result.Failed) != 1 || result.Failed[0] != "bad" {
		t.Errorf("Expected 'bad' to be reported as failed, got %v", result.Failed)
	}
	if result.Counts["good1"] != 1 || result.Counts["good2"] != 2 {
		t.Errorf("Unexpected counts: %v", result.Counts)
	}

	urls := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		urls = append(urls, item.URL)
	}
	sort.Strings(urls)
	if urls[0] != "u1" || urls[1] != "u2" || urls[2] != "u3" {
		t.Errorf("Unexpected merged items: %v", urls)
	}
}

func TestFetchAll_DuplicatesWithinOneFetch(t *testing.T) {
	dup := newTestItem("same", "https://example.com/same", "src")
	src := newMockSource("src", []news.Item{dup, dup}, false)

	result := FetchAll(context.Background(), []Source{src})
	if len(result.Items) != 1 {
		t.Errorf("Expected duplicate to be dropped, got %d items", len(result.Items))
	}
}

func TestFetchAll_NoSources(t *testing.T) {
	result := FetchAll(context.Background(), nil)
	if len(result.Items) != 0 || len(result.Failed) != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
}
