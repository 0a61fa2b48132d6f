package domain

import "fmt"

type Metric string

const (
	MetricBurst Metric = "burst"
	MetricDPS   Metric = "dps"
)

var AllMetrics = []Metric{MetricBurst, MetricDPS}

func ParseMetric(value string) (Metric, error) {
	switch Metric(value) {
	case MetricBurst, MetricDPS:
		return Metric(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMetric, value)
	}
}

// Label is the human form used in reports ("Burst", "DPS").
func (m Metric) Label() string {
	if m == MetricDPS {
		return "DPS"
	}
	return "Burst"
}

// BuildRecommendation is one evaluated item combination paired with the rune
// that scored best for it. Rune is nil when no rune was evaluated.
type BuildRecommendation struct {
	Items  []*Item
	Rune   *Rune
	Score  float64
	Metric Metric
}

func (b BuildRecommendation) ItemNames() []string {
	names := make([]string, len(b.Items))
	for i, item := range b.Items {
		names[i] = item.Name
	}
	return names
}

func (b BuildRecommendation) Summary(rank int) BuildSummary {
	summary := BuildSummary{
		Rank:      rank,
		ItemIDs:   make([]string, len(b.Items)),
		ItemNames: b.ItemNames(),
		Score:     b.Score,
		Metric:    b.Metric,
	}
	for i, item := range b.Items {
		summary.ItemIDs[i] = item.ID
	}
	if b.Rune != nil {
		summary.RuneID = b.Rune.ID
		summary.RuneName = b.Rune.Name
	}
	return summary
}

// BuildSummary is the flat, serialisable form of a BuildRecommendation.
type BuildSummary struct {
	Rank      int      `json:"rank"`
	ItemIDs   []string `json:"itemIds"`
	ItemNames []string `json:"itemNames"`
	RuneID    string   `json:"runeId,omitempty"`
	RuneName  string   `json:"runeName,omitempty"`
	Score     float64  `json:"score"`
	Metric    Metric   `json:"metric"`
}
