package morph

import (
	"context"
	"errors"
	"testing"
)

type countingAnalyzer struct {
	calls map[string]int
	fail  map[string]bool
}

func (c *countingAnalyzer) Parse(_ context.Context, word string) ([]Parse, error) {
	c.calls[word]++
	if c.fail[word] {
		return nil, errors.New("analyzer down")
	}
	return []Parse{{Word: word, Lemma: word, POS: Noun}}, nil
}

func TestCachedMemoizes(t *testing.T) {
	inner := &countingAnalyzer{calls: map[string]int{}}
	c, err := NewCached(inner, 2)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		parses, err := c.Parse(ctx, "дом")
		if err != nil || len(parses) != 1 {
			t.Fatalf("Parse = %v, %v", parses, err)
		}
	}
	if inner.calls["дом"] != 1 {
		t.Errorf("inner analyzer called %d times, want 1", inner.calls["дом"])
	}

	// Capacity 2: a third word evicts the least recently used one.
	_, _ = c.Parse(ctx, "кот")
	_, _ = c.Parse(ctx, "лес")
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	_, _ = c.Parse(ctx, "дом")
	if inner.calls["дом"] != 2 {
		t.Errorf("evicted word should be re-analyzed, calls = %d", inner.calls["дом"])
	}
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	inner := &countingAnalyzer{calls: map[string]int{}, fail: map[string]bool{"сбой": true}}
	c, err := NewCached(inner, 8)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := c.Parse(context.Background(), "сбой"); err == nil {
			t.Fatal("expected error")
		}
	}
	if inner.calls["сбой"] != 2 {
		t.Errorf("failing word should not be cached, calls = %d", inner.calls["сбой"])
	}
}

func TestNewCachedRejectsZeroSize(t *testing.T) {
	if _, err := NewCached(NewDictionary(), 0); err == nil {
		t.Fatal("expected error for zero cache size")
	}
}
