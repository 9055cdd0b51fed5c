package telemetry

import (
	"testing"

	"github.com/pthm-cable/bowshot/sim"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_AccuracyBreakthrough(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Build history at a 20% hit rate.
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Shots: 10, Hits: 2, HitRate: 0.2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Shots: 10, Hits: 8, HitRate: 0.8})
	if !hasBookmark(bookmarks, BookmarkAccuracyBreakthrough) {
		t.Error("expected accuracy_breakthrough bookmark")
	}
}

func TestBookmarkDetector_NeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{Shots: 10, Hits: 1, HitRate: 0.1})
	bookmarks := bd.Check(WindowStats{Shots: 10, Hits: 9, HitRate: 0.9})
	if len(bookmarks) != 0 {
		t.Errorf("expected no bookmarks with two windows of history, got %v", bookmarks)
	}
}

func TestBookmarkDetector_Slump(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{Shots: 10, Hits: 7, HitRate: 0.7})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Shots: 5, Misses: 5})
	if !hasBookmark(bookmarks, BookmarkSlump) {
		t.Error("expected slump bookmark")
	}
}

func TestBookmarkDetector_SteadyHandTriggersOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	count := 0
	for i := 0; i < 12; i++ {
		for _, bm := range bd.Check(WindowStats{WindowEndTick: int32(i), Shots: 10, Hits: 5, HitRate: 0.5}) {
			if bm.Type == BookmarkSteadyHand {
				count++
			}
		}
	}
	if count != 1 {
		t.Errorf("steady_hand fired %d times, want 1", count)
	}
}

func TestBookmarkDetector_IgnoresEmptyWindows(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{})
	}
	if got := bd.getHistory(); len(got) != 0 {
		t.Errorf("history length = %d, want 0", len(got))
	}
}

func TestBookmarkDetector_HotStreak(t *testing.T) {
	bd := NewBookmarkDetector(10)
	hit := ShotRecord{Outcome: sim.EventHit.String(), EndTick: 900, ScoreAfter: 225}

	tests := []struct {
		name   string
		record ShotRecord
		streak int
		want   bool
	}{
		{"below step", hit, 4, false},
		{"at step", hit, 5, true},
		{"between steps", hit, 7, false},
		{"second step", hit, 10, true},
		{"miss", ShotRecord{Outcome: sim.EventMiss.String()}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bd.CheckShot(tt.record, tt.streak)
			if (b != nil) != tt.want {
				t.Errorf("CheckShot(streak %d) = %v, want bookmark %v", tt.streak, b, tt.want)
			}
			if b != nil && b.Tick != 900 {
				t.Errorf("tick = %d, want 900", b.Tick)
			}
		})
	}
}
