package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pable/go-cricket-puzzles/internal/model"
)

const maxChartBars = 12

var (
	barColor    = drawing.ColorFromHex("1f77b4")
	targetColor = drawing.ColorFromHex("d62728")
)

// RenderRunsChart draws a PNG bar chart of runs scored per player, top
// scorers first. The target player's bar is highlighted.
func RenderRunsChart(stats []model.StoredPlayerStat, target model.PlayerKey) ([]byte, error) {
	if len(stats) == 0 {
		return renderNoData("No performances stored")
	}
	if len(stats) > maxChartBars {
		stats = stats[:maxChartBars]
	}

	bars := make([]chart.Value, 0, len(stats))
	for _, s := range stats {
		style := chart.Style{FillColor: barColor, StrokeColor: barColor}
		if s.Key == target {
			style = chart.Style{FillColor: targetColor, StrokeColor: targetColor}
		}
		bars = append(bars, chart.Value{
			Label: s.FullName,
			Value: float64(s.RunsInMatch),
			Style: style,
		})
	}

	graph := chart.BarChart{
		Title:    "Runs per player",
		Width:    1000,
		Height:   450,
		BarWidth: 50,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Bottom: 20},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxRuns(stats) + 10},
		},
		Bars: bars,
	}

	buf := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("render runs chart: %w", err)
	}
	return buf.Bytes(), nil
}

func maxRuns(stats []model.StoredPlayerStat) float64 {
	m := 0
	for _, s := range stats {
		m = max(m, s.RunsInMatch)
	}
	return float64(m)
}

func renderNoData(msg string) ([]byte, error) {
	graph := chart.BarChart{
		Title:    msg,
		Width:    400,
		Height:   200,
		BarWidth: 40,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 10},
		},
		Bars: []chart.Value{{Label: "-", Value: 0}},
	}
	buf := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("render placeholder chart: %w", err)
	}
	return buf.Bytes(), nil
}
