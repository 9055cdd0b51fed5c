package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHotStreak            BookmarkType = "hot_streak"
	BookmarkAccuracyBreakthrough BookmarkType = "accuracy_breakthrough"
	BookmarkSlump                BookmarkType = "slump"
	BookmarkSteadyHand           BookmarkType = "steady_hand"
)

// streakStep is how many consecutive hits make a hot streak bookmark.
const streakStep = 5

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in a session.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	steadyWindows int // consecutive windows with a hit rate close to the average
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 4 {
		historySize = 4
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// CheckShot reports a hot streak each time the run of hits reaches a
// multiple of streakStep.
func (bd *BookmarkDetector) CheckShot(r ShotRecord, streak int) *Bookmark {
	if !r.Hit() || streak == 0 || streak%streakStep != 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkHotStreak,
		Tick:        r.EndTick,
		Description: fmt.Sprintf("%d hits in a row, score %d", streak, r.ScoreAfter),
	}
}

// Check analyzes the latest window and returns any triggered bookmarks.
// Windows without shots are ignored.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	if stats.Shots == 0 {
		return nil
	}

	var bookmarks []Bookmark
	if avg, ok := bd.averageHitRate(); ok {
		if b := bd.checkBreakthrough(stats, avg); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSlump(stats, avg); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSteadyHand(stats, avg); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
	return bookmarks
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// averageHitRate pools shots over the history; it needs three windows.
func (bd *BookmarkDetector) averageHitRate() (float64, bool) {
	history := bd.getHistory()
	if len(history) < 3 {
		return 0, false
	}
	var shots, hits int
	for _, h := range history {
		shots += h.Shots
		hits += h.Hits
	}
	if shots == 0 {
		return 0, false
	}
	return float64(hits) / float64(shots), true
}

func (bd *BookmarkDetector) checkBreakthrough(stats WindowStats, avg float64) *Bookmark {
	if avg == 0 || stats.Hits < 3 || stats.HitRate <= avg*2 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkAccuracyBreakthrough,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Hit rate %.2f is %.1fx average (%.2f)", stats.HitRate, stats.HitRate/avg, avg),
	}
}

func (bd *BookmarkDetector) checkSlump(stats WindowStats, avg float64) *Bookmark {
	if avg < 0.5 || stats.Hits > 0 || stats.Shots < 3 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkSlump,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d misses in a row against a %.2f average", stats.Misses, avg),
	}
}

func (bd *BookmarkDetector) checkSteadyHand(stats WindowStats, avg float64) *Bookmark {
	if avg == 0 || stats.HitRate < avg-0.1 || stats.HitRate > avg+0.1 {
		bd.steadyWindows = 0
		return nil
	}
	bd.steadyWindows++

	// Trigger exactly once per steady run.
	if bd.steadyWindows != 4 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkSteadyHand,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Hit rate held near %.2f for 4 windows", avg),
	}
}
