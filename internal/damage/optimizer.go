package damage

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"runtime"
	"sort"
	"sync"

	"github.com/dom/league-damage-calc/internal/domain"
	"golang.org/x/sync/errgroup"
)

// SearchOptions configures FindBestBuilds.
//
// The search evaluates C(len(ItemPool), BuildSize) * max(1, len(RunePool))
// builds. That count grows combinatorially with the pool, so callers exposed to
// user input should set MaxEvaluations.
type SearchOptions struct {
	ItemPool  []*domain.Item
	RunePool  []*domain.Rune
	BuildSize int
	TopN      int
	Metric    domain.Metric
	Target    Target
	Duration  float64
	Combo     []string

	// Workers bounds parallel evaluation. Defaults to runtime.NumCPU().
	Workers int
	// MaxEvaluations rejects searches whose evaluation count exceeds it.
	// Zero disables the guard.
	MaxEvaluations int
	// Progress, when set, is called after each combination is scored.
	// Calls are serialized.
	Progress func(done, total int)
}

// EvaluationCount is the number of metric evaluations a search over pool items
// and runes rune candidates performs.
func EvaluationCount(pool, buildSize, runes int) *big.Int {
	if buildSize <= 0 || buildSize > pool {
		return big.NewInt(0)
	}
	count := new(big.Int).Binomial(int64(pool), int64(buildSize))
	return count.Mul(count, big.NewInt(int64(max(1, runes))))
}

// EvaluationCountInt64 is EvaluationCount clamped to math.MaxInt64.
func EvaluationCountInt64(pool, buildSize, runes int) int64 {
	count := EvaluationCount(pool, buildSize, runes)
	if !count.IsInt64() {
		return math.MaxInt64
	}
	return count.Int64()
}

// UniqueItems drops nil entries and repeated IDs, keeping first occurrences in
// order.
func UniqueItems(pool []*domain.Item) []*domain.Item {
	seen := make(map[string]bool, len(pool))
	unique := make([]*domain.Item, 0, len(pool))
	for _, item := range pool {
		if item == nil || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		unique = append(unique, item)
	}
	return unique
}

// UniqueRunes is UniqueItems for runes.
func UniqueRunes(pool []*domain.Rune) []*domain.Rune {
	seen := make(map[string]bool, len(pool))
	unique := make([]*domain.Rune, 0, len(pool))
	for _, r := range pool {
		if r == nil || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		unique = append(unique, r)
	}
	return unique
}

// FindBestBuilds scores every unordered BuildSize combination of ItemPool,
// pairs each with its best rune and returns the top TopN by score. Repeated
// pool entries are searched once.
func FindBestBuilds(ctx context.Context, champion *domain.Champion, level int, opts SearchOptions) ([]domain.BuildRecommendation, error) {
	if _, err := domain.ParseMetric(string(opts.Metric)); err != nil {
		return nil, err
	}
	opts.ItemPool = UniqueItems(opts.ItemPool)
	opts.RunePool = UniqueRunes(opts.RunePool)
	if opts.BuildSize <= 0 || opts.BuildSize > len(opts.ItemPool) {
		return []domain.BuildRecommendation{}, nil
	}

	evaluations := EvaluationCount(len(opts.ItemPool), opts.BuildSize, len(opts.RunePool))
	if opts.MaxEvaluations > 0 && evaluations.Cmp(big.NewInt(int64(opts.MaxEvaluations))) > 0 {
		return nil, fmt.Errorf("%w: %d evaluations requested, limit is %d", domain.ErrSearchTooLarge, evaluations, opts.MaxEvaluations)
	}

	combinations := generateCombinations(len(opts.ItemPool), opts.BuildSize)

	runeCandidates := opts.RunePool
	if len(runeCandidates) == 0 {
		runeCandidates = []*domain.Rune{nil}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]domain.BuildRecommendation, len(combinations))

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, combination := range combinations {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			items := make([]*domain.Item, len(combination))
			for j, idx := range combination {
				items[j] = opts.ItemPool[idx]
			}

			rec, err := scoreBuild(champion, level, items, runeCandidates, opts)
			if err != nil {
				return err
			}
			results[i] = rec

			if opts.Progress != nil {
				mu.Lock()
				done++
				opts.Progress(done, len(combinations))
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Sort by score (higher is better), keeping enumeration order on ties
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > opts.TopN {
		results = results[:max(opts.TopN, 0)]
	}

	return results, nil
}

// scoreBuild evaluates one item combination against every rune candidate and
// keeps the best. The first candidate wins ties.
func scoreBuild(champion *domain.Champion, level int, items []*domain.Item, runeCandidates []*domain.Rune, opts SearchOptions) (domain.BuildRecommendation, error) {
	best := domain.BuildRecommendation{Items: items, Metric: opts.Metric}
	found := false

	for _, candidate := range runeCandidates {
		var runes []*domain.Rune
		if candidate != nil {
			runes = []*domain.Rune{candidate}
		}

		score, err := evaluateMetric(champion, level, items, runes, opts)
		if err != nil {
			return domain.BuildRecommendation{}, err
		}

		if !found || score > best.Score {
			best.Score = score
			best.Rune = candidate
			found = true
		}
	}

	return best, nil
}

func evaluateMetric(champion *domain.Champion, level int, items []*domain.Item, runes []*domain.Rune, opts SearchOptions) (float64, error) {
	srcs := sources(items, runes)
	stats := aggregate(champion, level, srcs)

	switch opts.Metric {
	case domain.MetricBurst:
		result, err := burstCombo(champion, level, srcs, stats, BurstOptions{Target: opts.Target, Combo: opts.Combo})
		if err != nil {
			return 0, err
		}
		return result.Total, nil
	case domain.MetricDPS:
		return sustainedDPS(champion, level, srcs, stats, SustainedOptions{Target: opts.Target, Duration: opts.Duration}).Total, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrUnsupportedMetric, opts.Metric)
	}
}

// generateCombinations returns every k-element index combination of [0, n) in
// lexicographic order.
func generateCombinations(n, k int) [][]int {
	var results [][]int
	current := make([]int, 0, k)

	var generate func(start int)
	generate = func(start int) {
		if len(current) == k {
			result := make([]int, k)
			copy(result, current)
			results = append(results, result)
			return
		}

		// Pruning: not enough indices left to fill the combination
		for i := start; i <= n-(k-len(current)); i++ {
			current = append(current, i)
			generate(i + 1)
			current = current[:len(current)-1]
		}
	}

	generate(0)
	return results
}
