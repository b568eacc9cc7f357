package chart

import (
	"errors"
	"strings"

	"github.com/vicanso/go-charts/v2"

	"StockDash/internal/model"
)

// axisLabels formats bar timestamps for the x axis. Intraday single-day
// windows show clock time; multi-day windows include the date.
func axisLabels(series model.HistorySeries) []string {
	layout := "15:04"
	if series.Range != "1d" {
		layout = "Jan 02 15:04"
	}
	labels := make([]string, len(series.Bars))
	for i, b := range series.Bars {
		labels[i] = b.Time.Format(layout)
	}
	return labels
}

// closes extracts the plottable close values and their labels, dropping
// bars whose close is unavailable.
func closes(series model.HistorySeries) ([]float64, []string) {
	labels := axisLabels(series)
	xs := make([]string, 0, len(series.Bars))
	ys := make([]float64, 0, len(series.Bars))
	for i, b := range series.Bars {
		if !model.Available(b.Close) {
			continue
		}
		xs = append(xs, labels[i])
		ys = append(ys, b.Close)
	}
	return ys, xs
}

// PricePNG renders the close prices of a history window as a line chart.
func PricePNG(series model.HistorySeries) ([]byte, error) {
	ys, xs := closes(series)
	if len(ys) < 2 {
		return nil, errors.New("not enough data points")
	}

	yMin, yMax := ys[0], ys[0]
	for _, v := range ys[1:] {
		if v < yMin {
			yMin = v
		}
		if v > yMax {
			yMax = v
		}
	}
	pad := (yMax - yMin) * 0.05
	if pad < yMax*0.002 {
		pad = yMax * 0.002
	}
	yMin -= pad
	if yMin < 0 {
		yMin = 0
	}
	yMax += pad

	painter, err := charts.LineRender([][]float64{ys},
		charts.TitleTextOptionFunc(strings.ToUpper(series.Symbol)+" • "+series.Interval+" • "+series.Range),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: xs, BoundaryGap: charts.FalseFlag(), SplitNumber: 10}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// VolumePNG renders per-bar volume as a bar chart.
func VolumePNG(series model.HistorySeries) ([]byte, error) {
	labels := axisLabels(series)
	xs := make([]string, 0, len(series.Bars))
	ys := make([]float64, 0, len(series.Bars))
	for i, b := range series.Bars {
		if !model.Available(b.Volume) {
			continue
		}
		xs = append(xs, labels[i])
		ys = append(ys, b.Volume)
	}
	if len(ys) == 0 {
		return nil, errors.New("no volume data")
	}

	painter, err := charts.BarRender([][]float64{ys},
		charts.TitleTextOptionFunc(strings.ToUpper(series.Symbol)+" • volume"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: xs, SplitNumber: 10}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}
