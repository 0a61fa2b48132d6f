package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/dom/league-damage-calc/internal/service"
	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

var headers = []string{"Rank", "Items", "Rune", "Metric", "Score", "% of best"}

// WriteBuildsXLSX writes one sheet per search result, in order. An empty
// result still gets a sheet with headers only.
func WriteBuildsXLSX(w io.Writer, results []*service.SearchResult) error {
	f, err := buildWorkbook(results)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

// SaveBuildsXLSX writes the workbook to path.
func SaveBuildsXLSX(path string, results []*service.SearchResult) error {
	f, err := buildWorkbook(results)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func buildWorkbook(results []*service.SearchResult) (*excelize.File, error) {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	headerStyleID, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	// Percent formatting: 1.0 => 100%
	percentStyleID, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		f.Close()
		return nil, err
	}

	used := make(map[string]bool)
	for i, result := range results {
		sheet := sheetName(result, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, err
		}

		if err := writeSheet(f, sheet, result, headerStyleID, percentStyleID); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, result *service.SearchResult, headerStyleID, percentStyleID int) error {
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyleID); err != nil {
		return err
	}

	best := 0.0
	if len(result.Builds) > 0 {
		best = result.Builds[0].Score
	}

	for i, build := range result.Builds {
		row := i + 2
		values := []any{
			build.Rank,
			strings.Join(build.ItemNames, ", "),
			build.RuneName,
			build.Metric.Label(),
			build.Score,
		}
		if best > 0 {
			values = append(values, build.Score/best)
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if len(result.Builds) > 0 {
		lastRow := len(result.Builds) + 1
		if err := f.SetCellStyle(sheet, "F2", fmt.Sprintf("F%d", lastRow), percentStyleID); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "B", "C", 40)
}

// sheetName derives a unique, Excel-safe sheet name from the champion name.
func sheetName(result *service.SearchResult, used map[string]bool) string {
	name := result.ChampionName
	if name == "" {
		name = result.Champion
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Builds"
	}

	base := truncate(name, maxSheetName)
	candidate := base
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncate(base, maxSheetName-len([]rune(suffix))) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
