package ragcontext

import (
	"testing"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/model"
)

func mkItem(desc string, amount float64, date time.Time, source SourceKind, score float64) Item {
	return Item{
		Amount:         amount,
		Category:       model.CategoryFoodDining,
		Description:    desc,
		Date:           date,
		SourceKind:     source,
		RelevanceScore: score,
	}
}

func TestDedupeFirstSeenWins(t *testing.T) {
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	// The same underlying expense surfaced by two sources with different
	// scores; the earlier occurrence must survive.
	items := []Item{
		mkItem("lunch", 25, date, SourceCategory, 1.0),
		mkItem("lunch", 25, date, SourceTemporal, 0.4),
	}

	got := DedupeAndRank(items, 10)
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	if got[0].SourceKind != SourceCategory || got[0].RelevanceScore != 1.0 {
		t.Errorf("kept item from %s with score %v, want category/1.0",
			got[0].SourceKind, got[0].RelevanceScore)
	}
}

func TestDedupeDistinguishesTripleParts(t *testing.T) {
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	items := []Item{
		mkItem("lunch", 25, date, SourceCategory, 0.5),
		mkItem("lunch", 26, date, SourceCategory, 0.5),                    // different amount
		mkItem("dinner", 25, date, SourceCategory, 0.5),                   // different description
		mkItem("lunch", 25, date.AddDate(0, 0, 1), SourceCategory, 0.5),   // different date
	}

	got := DedupeAndRank(items, 10)
	if len(got) != 4 {
		t.Errorf("got %d items, want 4 (no pair shares the full triple)", len(got))
	}
}

func TestRankOrderAndTruncation(t *testing.T) {
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	items := []Item{
		mkItem("a", 1, date, SourceTemporal, 0.2),
		mkItem("b", 2, date, SourceCategory, 1.0),
		mkItem("c", 3, date, SourceAmount, 0.6),
		mkItem("d", 4, date, SourceCategory, 0.7),
	}

	got := DedupeAndRank(items, 3)
	if len(got) != 3 {
		t.Fatalf("got %d items, want 3 after truncation", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].RelevanceScore > got[i-1].RelevanceScore {
			t.Errorf("scores not non-increasing at %d: %v > %v",
				i, got[i].RelevanceScore, got[i-1].RelevanceScore)
		}
	}
	if got[0].Description != "b" {
		t.Errorf("top item is %q, want b", got[0].Description)
	}
}

func TestRankStableOnTies(t *testing.T) {
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	items := []Item{
		mkItem("first", 1, date, SourceCategory, 0.8),
		mkItem("second", 2, date, SourceAmount, 0.8),
		mkItem("third", 3, date, SourceTemporal, 0.8),
	}

	got := DedupeAndRank(items, 10)
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if got[i].Description != w {
			t.Errorf("position %d: got %q, want %q (tied scores must keep input order)",
				i, got[i].Description, w)
		}
	}
}

func TestDedupeEmptyInput(t *testing.T) {
	if got := DedupeAndRank(nil, 10); len(got) != 0 {
		t.Errorf("got %d items from nil input, want 0", len(got))
	}
}
