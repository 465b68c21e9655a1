package web

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pitwall/pitwall/pkg/model"
)

// buildPage assembles one dashboard page from the analysis bundle. The
// page only consumes plain result values; every chart copes with its
// series being empty.
func (s *Server) buildPage(analysis *model.DriverAnalysis, ds *model.DriverDataset) *components.Page {
	page := components.NewPage()
	page.AddCharts(
		s.lapTimeChart(analysis),
		s.sectorChart(analysis),
		s.stintChart(analysis),
		s.tyreAgeChart(analysis),
		s.speedTraceChart(analysis, ds),
	)
	return page
}

func (s *Server) initOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "pitwall",
			Theme:     s.theme,
			Width:     "1200px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func (s *Server) lapTimeChart(analysis *model.DriverAnalysis) components.Charter {
	subtitle := "no lap times available"
	if analysis.Evolution.Valid {
		subtitle = fmt.Sprintf("mean %.3fs over %d laps",
			analysis.Evolution.Mean, len(analysis.Evolution.Laps))
	}
	line := charts.NewLine()
	line.SetGlobalOptions(s.initOpts("Lap time evolution", subtitle)...)

	xAxis := make([]string, 0, len(analysis.Evolution.Laps))
	data := make([]opts.LineData, 0, len(analysis.Evolution.Laps))
	for _, row := range analysis.Evolution.Laps {
		xAxis = append(xAxis, fmt.Sprintf("L%d", row.LapNumber))
		name := ""
		if row.Fastest {
			name = "fastest"
		}
		data = append(data, opts.LineData{Name: name, Value: row.LapTime})
	}
	line.SetXAxis(xAxis).
		AddSeries(analysis.Driver.Abbreviation, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: analysis.Color}))
	return line
}

func (s *Server) sectorChart(analysis *model.DriverAnalysis) components.Charter {
	line := charts.NewLine()
	line.SetGlobalOptions(s.initOpts("Sector times",
		fmt.Sprintf("%d quick laps with complete sectors", len(analysis.SectorTimes)))...)

	xAxis := make([]string, 0, len(analysis.SectorTimes))
	s1 := make([]opts.LineData, 0, len(analysis.SectorTimes))
	s2 := make([]opts.LineData, 0, len(analysis.SectorTimes))
	s3 := make([]opts.LineData, 0, len(analysis.SectorTimes))
	for _, row := range analysis.SectorTimes {
		xAxis = append(xAxis, fmt.Sprintf("L%d", row.LapNumber))
		s1 = append(s1, opts.LineData{Value: row.Sector1})
		s2 = append(s2, opts.LineData{Value: row.Sector2})
		s3 = append(s3, opts.LineData{Value: row.Sector3})
	}
	line.SetXAxis(xAxis).
		AddSeries("S1", s1).
		AddSeries("S2", s2).
		AddSeries("S3", s3)
	return line
}

func (s *Server) stintChart(analysis *model.DriverAnalysis) components.Charter {
	bar := charts.NewBar()
	bar.SetGlobalOptions(s.initOpts("Stint comparison",
		"mean lap time per compound, fastest first")...)

	xAxis := make([]string, 0, len(analysis.Stints))
	data := make([]opts.BarData, 0, len(analysis.Stints))
	for _, row := range analysis.Stints {
		xAxis = append(xAxis, fmt.Sprintf("%s (%d laps)", row.Compound, row.LapCount))
		data = append(data, opts.BarData{Value: row.MeanLapTime})
	}
	bar.SetXAxis(xAxis).AddSeries("mean lap time", data)
	return bar
}

func (s *Server) tyreAgeChart(analysis *model.DriverAnalysis) components.Charter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(s.initOpts("Tyre age", "tyre life per lap, by compound")...)
	scatter.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Name: "lap", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "tyre life (laps)", Type: "value"}),
	)
	for _, group := range analysis.TyreAge {
		data := make([]opts.ScatterData, 0, len(group.Points))
		for _, p := range group.Points {
			data = append(data, opts.ScatterData{Value: []any{p.LapNumber, p.TyreLife}})
		}
		scatter.AddSeries(string(group.Compound), data)
	}
	return scatter
}

// speedTraceChart plots the fastest lap's speed over distance with the
// circuit corners as vertical marks and the coast/traction flags as
// point overlays.
func (s *Server) speedTraceChart(
	analysis *model.DriverAnalysis, ds *model.DriverDataset,
) components.Charter {
	line := charts.NewLine()
	subtitle := "no fastest-lap telemetry available"
	var samples []model.TelemetrySample
	if ds != nil && len(ds.FastestLapTelemetry) > 0 {
		samples = ds.FastestLapTelemetry
		subtitle = fmt.Sprintf("fastest lap, coast %.1f%%, efficiency %.1f",
			analysis.CoastPercentage, analysis.Efficiency.Score)
	}
	line.SetGlobalOptions(s.initOpts("Speed trace", subtitle)...)
	line.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Name: "distance (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "speed (km/h)"}),
	)
	if len(samples) == 0 {
		return line
	}

	xAxis := make([]string, 0, len(samples))
	speed := make([]opts.LineData, 0, len(samples))
	coast := make([]opts.LineData, 0)
	traction := make([]opts.LineData, 0)
	for i := range samples {
		xAxis = append(xAxis, fmt.Sprintf("%.0f", samples[i].Distance))
		speed = append(speed, opts.LineData{Value: samples[i].Speed})
		if analysis.Masks.Coast[i] {
			coast = append(coast, opts.LineData{Value: samples[i].Speed})
		} else {
			coast = append(coast, opts.LineData{Value: "-"})
		}
		if analysis.Masks.Traction[i] {
			traction = append(traction, opts.LineData{Value: samples[i].Speed})
		} else {
			traction = append(traction, opts.LineData{Value: "-"})
		}
	}

	line.SetXAxis(xAxis).
		AddSeries(analysis.Driver.Abbreviation, speed,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: analysis.Color})).
		AddSeries("coast", coast).
		AddSeries("traction loss", traction)

	if ds.Context != nil && len(ds.Context.Corners) > 0 {
		marks := make([]opts.MarkLineNameXAxisItem, 0, len(ds.Context.Corners))
		for _, c := range ds.Context.Corners {
			marks = append(marks, opts.MarkLineNameXAxisItem{
				Name:  fmt.Sprintf("T%d", c.Number),
				XAxis: fmt.Sprintf("%.0f", nearestDistance(samples, c.Distance)),
			})
		}
		line.SetSeriesOptions(charts.WithMarkLineNameXAxisItemOpts(marks...))
	}
	return line
}

// nearestDistance snaps a corner distance onto the closest sampled
// distance so the mark hits an existing axis category.
func nearestDistance(samples []model.TelemetrySample, distance float64) float64 {
	best := samples[0].Distance
	bestDiff := abs(distance - best)
	for i := 1; i < len(samples); i++ {
		if d := abs(distance - samples[i].Distance); d < bestDiff {
			best = samples[i].Distance
			bestDiff = d
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
