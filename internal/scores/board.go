// Package scores keeps the persisted top-score leaderboard.
package scores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/verte-zerg/quizgem/internal/store"
)

// TopScoresKey is the record holding the serialized leaderboard. The redis
// backend stores it as store.KeyPrefix + ":" + TopScoresKey.
const TopScoresKey = "quiz_top_scores"

// Limit is the number of scores kept on the board.
const Limit = 3

// Board reads and updates the leaderboard record. Saves are serialized
// within the process; concurrent readers share one storage read.
type Board struct {
	kv  store.KV
	log *zap.Logger
	mu  sync.Mutex
	sf  singleflight.Group
}

// Saved reports the outcome of Board.Save.
type Saved struct {
	OK   bool
	Top  []int
	Rank int
	Err  error
}

// NewBoard returns a Board backed by kv.
func NewBoard(kv store.KV, log *zap.Logger) *Board {
	if log == nil {
		log = zap.NewNop()
	}
	return &Board{kv: kv, log: log}
}

// Insert appends value, sorts descending and keeps the first Limit entries.
func Insert(top []int, value int) []int {
	all := make([]int, 0, len(top)+1)
	all = append(all, top...)
	all = append(all, value)
	sort.SliceStable(all, func(i, j int) bool { return all[i] > all[j] })
	if len(all) > Limit {
		all = all[:Limit]
	}
	return all
}

// Rank returns the 1-based position of value in top, or 0 when absent.
// Equal scores are indistinguishable; the first match wins.
func Rank(top []int, value int) int {
	for i, v := range top {
		if v == value {
			return i + 1
		}
	}
	return 0
}

// TopScores returns the stored leaderboard, sorted descending and capped at
// Limit. A missing or unreadable record yields an empty slice.
func (b *Board) TopScores(ctx context.Context) ([]int, error) {
	v, err, _ := b.sf.Do(TopScoresKey, func() (interface{}, error) {
		return b.readTopScores(ctx)
	})
	if err != nil {
		return nil, err
	}
	shared := v.([]int)
	out := make([]int, len(shared))
	copy(out, shared)
	return out, nil
}

// readTopScores treats an undecodable record as an empty board so the next
// save overwrites it. Transport failures are still returned.
func (b *Board) readTopScores(ctx context.Context) ([]int, error) {
	raw, err := b.kv.Get(ctx, TopScoresKey)
	if errors.Is(err, store.ErrNotFound) {
		return []int{}, nil
	}
	if errors.Is(err, store.ErrDecrypt) {
		b.log.Warn("discarding unreadable top scores record", zap.Error(err))
		return []int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read top scores: %w", err)
	}
	var top []int
	if err := json.Unmarshal(raw, &top); err != nil {
		b.log.Warn("discarding malformed top scores record", zap.Error(err))
		return []int{}, nil
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i] > top[j] })
	if len(top) > Limit {
		top = top[:Limit]
	}
	if top == nil {
		top = []int{}
	}
	return top, nil
}

// Save inserts value into the leaderboard and writes it back as one record.
// Storage failures are reported through Saved rather than returned.
func (b *Board) Save(ctx context.Context, value int) Saved {
	b.mu.Lock()
	defer b.mu.Unlock()

	current, err := b.readTopScores(ctx)
	if err != nil {
		b.log.Warn("score not recorded", zap.Int("score", value), zap.Error(err))
		return Saved{Err: err}
	}
	top := Insert(current, value)
	raw, err := json.Marshal(top)
	if err != nil {
		b.log.Warn("score not recorded", zap.Int("score", value), zap.Error(err))
		return Saved{Err: fmt.Errorf("failed to encode top scores: %w", err)}
	}
	if err := b.kv.Put(ctx, TopScoresKey, raw); err != nil {
		err = fmt.Errorf("failed to write top scores: %w", err)
		b.log.Warn("score not recorded", zap.Int("score", value), zap.Error(err))
		return Saved{Err: err}
	}
	b.log.Info("score recorded", zap.Int("score", value), zap.Ints("top", top))
	return Saved{OK: true, Top: top, Rank: Rank(top, value)}
}

// Reset removes the leaderboard record.
func (b *Board) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.kv.Delete(ctx, TopScoresKey); err != nil {
		return fmt.Errorf("failed to reset top scores: %w", err)
	}
	return nil
}
