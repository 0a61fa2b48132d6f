package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dom/league-damage-calc/internal/config"
	"github.com/dom/league-damage-calc/internal/export"
	"github.com/dom/league-damage-calc/internal/service"
)

type options struct {
	champion     string
	level        int
	buildSize    int
	top          int
	metric       string
	duration     float64
	items        string
	runes        string
	noRunes      bool
	targetHealth float64
	dataDir      string
	xlsxPath     string
	apiURL       string
}

func main() {
	opts := parseFlags(os.Args[1:])

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}

	var s searcher
	if opts.apiURL != "" {
		s = NewAPIClient(opts.apiURL)
	} else {
		s, err = newLocalSearcher(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := run(context.Background(), s, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) options {
	var opts options

	fs := flag.NewFlagSet("damagecalc", flag.ExitOnError)
	fs.StringVar(&opts.champion, "champion", "", "Champion name or id to evaluate (default: every champion)")
	fs.IntVar(&opts.level, "level", service.DefaultLevel, "Champion level to evaluate")
	fs.IntVar(&opts.buildSize, "build-size", service.DefaultBuildSize, "Number of items in each build combination")
	fs.IntVar(&opts.top, "top", service.DefaultTopN, "Number of top builds to display")
	fs.StringVar(&opts.metric, "metric", "burst", "Metric to rank builds by (burst or dps)")
	fs.Float64Var(&opts.duration, "duration", 10, "Duration window in seconds for sustained DPS")
	fs.StringVar(&opts.items, "items", "", "Comma separated subset of items to evaluate (default: every item)")
	fs.StringVar(&opts.runes, "runes", "", "Comma separated subset of runes to evaluate (default: every rune)")
	fs.BoolVar(&opts.noRunes, "no-runes", false, "Evaluate builds without a rune")
	fs.Float64Var(&opts.targetHealth, "target-health", 0, "Override the target's maximum health")
	fs.StringVar(&opts.dataDir, "data", "", "Dataset directory (default: embedded dataset)")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "Also write the rankings to this .xlsx file")
	fs.StringVar(&opts.apiURL, "api", "", "Run searches against a damage calculator server at this URL")
	fs.Parse(args)

	return opts
}

func run(ctx context.Context, s searcher, opts options, out io.Writer) error {
	champions := []string{opts.champion}
	if opts.champion == "" {
		all, err := s.Champions(ctx)
		if err != nil {
			return err
		}
		champions = all
	}

	results := make([]*service.SearchResult, 0, len(champions))
	for _, champion := range champions {
		result, err := s.Search(ctx, opts.searchRequest(champion))
		if err != nil {
			return err
		}
		printResult(out, result)
		results = append(results, result)
	}

	if opts.xlsxPath != "" {
		if err := export.SaveBuildsXLSX(opts.xlsxPath, results); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", opts.xlsxPath)
	}
	return nil
}

func (o options) searchRequest(champion string) service.SearchRequest {
	duration := o.duration
	req := service.SearchRequest{
		Champion:  champion,
		Level:     o.level,
		Items:     splitList(o.items),
		Runes:     splitList(o.runes),
		NoRunes:   o.noRunes,
		BuildSize: o.buildSize,
		TopN:      o.top,
		Metric:    o.metric,
		Duration:  &duration,
	}
	if o.targetHealth > 0 {
		health := o.targetHealth
		req.Target.Health = &health
	}
	return req
}

func printResult(out io.Writer, result *service.SearchResult) {
	label := result.ChampionName
	if result.Role != "" {
		label = fmt.Sprintf("%s (%s)", result.ChampionName, result.Role)
	}
	fmt.Fprintf(out, "=== %s ===\n", label)

	if len(result.Builds) == 0 {
		fmt.Fprintln(out, "  No builds evaluated.")
		return
	}

	for _, build := range result.Builds {
		line := fmt.Sprintf("  %d. %s -> %s: %.1f", build.Rank, strings.Join(build.ItemNames, ", "), build.Metric.Label(), build.Score)
		if build.RuneName != "" {
			line += fmt.Sprintf(" (Rune: %s)", build.RuneName)
		}
		fmt.Fprintln(out, line)
	}
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
