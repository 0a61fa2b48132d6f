package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/dom/league-damage-calc/internal/cache"
	"github.com/dom/league-damage-calc/internal/config"
	"github.com/dom/league-damage-calc/internal/damage"
	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/dom/league-damage-calc/internal/repository"
	"github.com/google/uuid"
)

// Request defaults, matching the command line tool.
const (
	DefaultLevel     = 13
	DefaultBuildSize = 2
	DefaultTopN      = 1

	searchCachePrefix = "search"
)

type DamageService struct {
	champions repository.ChampionRepository
	items     repository.ItemRepository
	runes     repository.RuneRepository
	cache     cache.SearchCache
	cfg       *config.Config
}

// NewDamageService wires the calculator to the repositories. searchCache may
// be nil to disable caching; items and runes may be nil, in which case
// requests naming them fail with domain.ErrMissingRepository.
func NewDamageService(repos *repository.Repositories, searchCache cache.SearchCache, cfg *config.Config) *DamageService {
	return &DamageService{
		champions: repos.Champion,
		items:     repos.Item,
		runes:     repos.Rune,
		cache:     searchCache,
		cfg:       cfg,
	}
}

// TargetInput overrides the configured target defaults field by field.
type TargetInput struct {
	Health      *float64 `json:"health,omitempty"`
	Armor       *float64 `json:"armor,omitempty"`
	MagicResist *float64 `json:"magicResist,omitempty"`
}

type CalculationRequest struct {
	Champion string      `json:"champion"`
	Level    int         `json:"level"`
	Items    []string    `json:"items"`
	Runes    []string    `json:"runes"`
	Combo    []string    `json:"combo,omitempty"`
	Duration *float64    `json:"duration,omitempty"`
	Target   TargetInput `json:"target"`
}

type CalculationResult struct {
	Champion string                  `json:"champion"`
	Level    int                     `json:"level"`
	Items    []string                `json:"items"`
	Runes    []string                `json:"runes"`
	Metric   domain.Metric           `json:"metric"`
	Target   damage.Target           `json:"target"`
	Duration float64                 `json:"duration,omitempty"`
	Value    float64                 `json:"value"`
	Raw      domain.DamageComponents `json:"raw"`
	Casts    map[string]int          `json:"casts"`
	Stats    damage.Stats            `json:"stats"`
}

type SearchRequest struct {
	Champion string `json:"champion"`
	Level    int    `json:"level"`
	// Items is the item pool; empty means every known item.
	Items []string `json:"items"`
	// Runes is the rune pool; empty means every known rune.
	Runes     []string    `json:"runes"`
	NoRunes   bool        `json:"noRunes"`
	BuildSize int         `json:"buildSize"`
	TopN      int         `json:"top"`
	Metric    string      `json:"metric"`
	Combo     []string    `json:"combo,omitempty"`
	Duration  *float64    `json:"duration,omitempty"`
	Target    TargetInput `json:"target"`
}

type SearchResult struct {
	ID           uuid.UUID             `json:"id"`
	Champion     string                `json:"champion"`
	ChampionName string                `json:"championName"`
	Role         string                `json:"role"`
	Level        int                   `json:"level"`
	Metric       domain.Metric         `json:"metric"`
	Evaluations  int64                 `json:"evaluations"`
	Cached       bool                  `json:"cached"`
	Builds       []domain.BuildSummary `json:"builds"`
}

// cachedSearch is the part of a SearchResult that is stored in the cache.
type cachedSearch struct {
	Evaluations int64                 `json:"evaluations"`
	Builds      []domain.BuildSummary `json:"builds"`
}

// searchKey is the normalized form of a search used to derive its cache key.
type searchKey struct {
	Champion  string        `json:"champion"`
	Level     int           `json:"level"`
	Items     []string      `json:"items"`
	Runes     []string      `json:"runes"`
	BuildSize int           `json:"buildSize"`
	TopN      int           `json:"top"`
	Metric    domain.Metric `json:"metric"`
	Combo     []string      `json:"combo"`
	Duration  float64       `json:"duration"`
	Target    damage.Target `json:"target"`
}

func (s *DamageService) Burst(ctx context.Context, req CalculationRequest) (*CalculationResult, error) {
	champion, level, items, runes, err := s.resolveLoadout(ctx, req.Champion, req.Level, req.Items, req.Runes)
	if err != nil {
		return nil, err
	}

	target := s.target(req.Target)
	result, err := damage.BurstCombo(champion, level, items, runes, damage.BurstOptions{Target: target, Combo: req.Combo})
	if err != nil {
		return nil, err
	}

	return &CalculationResult{
		Champion: champion.ID,
		Level:    level,
		Items:    itemNames(items),
		Runes:    runeNames(runes),
		Metric:   domain.MetricBurst,
		Target:   target,
		Value:    result.Total,
		Raw:      result.Raw,
		Casts:    result.Casts,
		Stats:    damage.AggregateStats(champion, level, items, runes),
	}, nil
}

func (s *DamageService) SustainedDPS(ctx context.Context, req CalculationRequest) (*CalculationResult, error) {
	champion, level, items, runes, err := s.resolveLoadout(ctx, req.Champion, req.Level, req.Items, req.Runes)
	if err != nil {
		return nil, err
	}

	target := s.target(req.Target)
	duration := s.duration(req.Duration)
	result := damage.SustainedDPS(champion, level, items, runes, damage.SustainedOptions{Target: target, Duration: duration})

	return &CalculationResult{
		Champion: champion.ID,
		Level:    level,
		Items:    itemNames(items),
		Runes:    runeNames(runes),
		Metric:   domain.MetricDPS,
		Target:   target,
		Duration: duration,
		Value:    result.Total,
		Raw:      result.Raw,
		Casts:    result.Casts,
		Stats:    damage.AggregateStats(champion, level, items, runes),
	}, nil
}

// Search ranks item combinations for one champion. progress, when non-nil,
// receives the optimizer's progress callbacks; it is not called when the
// result comes from the cache.
func (s *DamageService) Search(ctx context.Context, req SearchRequest, progress func(done, total int)) (*SearchResult, error) {
	metric := domain.MetricBurst
	if req.Metric != "" {
		parsed, err := domain.ParseMetric(req.Metric)
		if err != nil {
			return nil, err
		}
		metric = parsed
	}

	champion, level, err := s.resolveChampion(ctx, req.Champion, req.Level)
	if err != nil {
		return nil, err
	}

	pool, err := s.itemPool(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	runePool, err := s.runePool(ctx, req.Runes, req.NoRunes)
	if err != nil {
		return nil, err
	}

	buildSize := req.BuildSize
	if buildSize == 0 {
		buildSize = DefaultBuildSize
	}
	topN := req.TopN
	if topN == 0 {
		topN = DefaultTopN
	}
	target := s.target(req.Target)
	duration := s.duration(req.Duration)

	result := &SearchResult{
		ID:           uuid.New(),
		Champion:     champion.ID,
		ChampionName: champion.Name,
		Role:         champion.Role,
		Level:        level,
		Metric:       metric,
	}

	key, err := cache.Key(searchCachePrefix, searchKey{
		Champion:  champion.ID,
		Level:     level,
		Items:     itemIDs(pool),
		Runes:     runeIDs(runePool),
		BuildSize: buildSize,
		TopN:      topN,
		Metric:    metric,
		Combo:     req.Combo,
		Duration:  duration,
		Target:    target,
	})
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cachedSearch(ctx, key); ok {
		result.Evaluations = cached.Evaluations
		result.Builds = cached.Builds
		result.Cached = true
		return result, nil
	}

	builds, err := damage.FindBestBuilds(ctx, champion, level, damage.SearchOptions{
		ItemPool:       pool,
		RunePool:       runePool,
		BuildSize:      buildSize,
		TopN:           topN,
		Metric:         metric,
		Target:         target,
		Duration:       duration,
		Combo:          req.Combo,
		Workers:        s.cfg.SearchWorkers,
		MaxEvaluations: s.cfg.MaxSearchEvaluations,
		Progress:       progress,
	})
	if err != nil {
		return nil, err
	}

	result.Evaluations = damage.EvaluationCountInt64(len(pool), buildSize, len(runePool))
	result.Builds = make([]domain.BuildSummary, len(builds))
	for i, build := range builds {
		result.Builds[i] = build.Summary(i + 1)
	}

	s.storeSearch(ctx, key, cachedSearch{Evaluations: result.Evaluations, Builds: result.Builds})
	return result, nil
}

func (s *DamageService) cachedSearch(ctx context.Context, key string) (*cachedSearch, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("ERROR [DamageService.Search] cache get key=%s: %v", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var cached cachedSearch
	if err := json.Unmarshal(raw, &cached); err != nil {
		log.Printf("ERROR [DamageService.Search] cache decode key=%s: %v", key, err)
		return nil, false
	}
	return &cached, true
}

func (s *DamageService) storeSearch(ctx context.Context, key string, value cachedSearch) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("ERROR [DamageService.Search] cache encode key=%s: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cfg.SearchCacheTTL); err != nil {
		log.Printf("ERROR [DamageService.Search] cache set key=%s: %v", key, err)
	}
}

func (s *DamageService) resolveChampion(ctx context.Context, identifier string, level int) (*domain.Champion, int, error) {
	if level == 0 {
		level = DefaultLevel
	}
	if level < domain.MinLevel || level > domain.MaxLevel {
		return nil, 0, fmt.Errorf("%w: got %d", domain.ErrInvalidLevel, level)
	}
	if s.champions == nil {
		return nil, 0, fmt.Errorf("champions: %w", domain.ErrMissingRepository)
	}

	champion, err := s.champions.Get(ctx, identifier)
	if err != nil {
		return nil, 0, err
	}
	return champion, level, nil
}

func (s *DamageService) resolveLoadout(ctx context.Context, championID string, level int, itemIDs, runeIDs []string) (*domain.Champion, int, []*domain.Item, []*domain.Rune, error) {
	champion, level, err := s.resolveChampion(ctx, championID, level)
	if err != nil {
		return nil, 0, nil, nil, err
	}

	items, err := s.resolveItems(ctx, itemIDs)
	if err != nil {
		return nil, 0, nil, nil, err
	}
	runes, err := s.resolveRunes(ctx, runeIDs)
	if err != nil {
		return nil, 0, nil, nil, err
	}
	return champion, level, items, runes, nil
}

func (s *DamageService) resolveItems(ctx context.Context, identifiers []string) ([]*domain.Item, error) {
	if len(identifiers) == 0 {
		return nil, nil
	}
	if s.items == nil {
		return nil, fmt.Errorf("items: %w", domain.ErrMissingRepository)
	}

	items := make([]*domain.Item, len(identifiers))
	for i, identifier := range identifiers {
		item, err := s.items.Get(ctx, identifier)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

func (s *DamageService) resolveRunes(ctx context.Context, identifiers []string) ([]*domain.Rune, error) {
	if len(identifiers) == 0 {
		return nil, nil
	}
	if s.runes == nil {
		return nil, fmt.Errorf("runes: %w", domain.ErrMissingRepository)
	}

	runes := make([]*domain.Rune, len(identifiers))
	for i, identifier := range identifiers {
		r, err := s.runes.Get(ctx, identifier)
		if err != nil {
			return nil, err
		}
		runes[i] = r
	}
	return runes, nil
}

func (s *DamageService) itemPool(ctx context.Context, identifiers []string) ([]*domain.Item, error) {
	if len(identifiers) > 0 {
		items, err := s.resolveItems(ctx, identifiers)
		if err != nil {
			return nil, err
		}
		return damage.UniqueItems(items), nil
	}
	if s.items == nil {
		return nil, fmt.Errorf("items: %w", domain.ErrMissingRepository)
	}
	return s.items.All(ctx)
}

// runePool defaults to every known rune when a rune repository is configured.
func (s *DamageService) runePool(ctx context.Context, identifiers []string, noRunes bool) ([]*domain.Rune, error) {
	if noRunes {
		return nil, nil
	}
	if len(identifiers) > 0 {
		runes, err := s.resolveRunes(ctx, identifiers)
		if err != nil {
			return nil, err
		}
		return damage.UniqueRunes(runes), nil
	}
	if s.runes == nil {
		return nil, nil
	}
	return s.runes.All(ctx)
}

func (s *DamageService) target(in TargetInput) damage.Target {
	target := damage.Target{
		Health:      s.cfg.DefaultTargetHealth,
		Armor:       s.cfg.TargetArmor,
		MagicResist: s.cfg.TargetMagicResist,
	}
	if in.Health != nil {
		target.Health = *in.Health
	}
	if in.Armor != nil {
		target.Armor = *in.Armor
	}
	if in.MagicResist != nil {
		target.MagicResist = *in.MagicResist
	}
	return target
}

func (s *DamageService) duration(in *float64) float64 {
	if in != nil {
		return *in
	}
	return s.cfg.DefaultDuration
}

func itemNames(items []*domain.Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

func runeNames(runes []*domain.Rune) []string {
	names := make([]string, len(runes))
	for i, r := range runes {
		names[i] = r.Name
	}
	return names
}

func itemIDs(items []*domain.Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func runeIDs(runes []*domain.Rune) []string {
	ids := make([]string, len(runes))
	for i, r := range runes {
		ids[i] = r.ID
	}
	return ids
}
