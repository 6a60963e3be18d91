// Package report renders static PNG reports for trips using gonum/plot.
// These are the offline counterpart to the HTML charts served by the API.
package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/NiranjanKaithota/InsurTech/internal/analysis"
	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// SpeedProfilePNG writes a line plot of the trip's speed against the
// posted limits. Detected risk events, if any, are overlaid as scatter
// markers at (event time, speed at that tick).
func SpeedProfilePNG(tr *trip.Trip, events []analysis.RiskEvent, path string) error {
	if tr == nil || len(tr.Sequence) == 0 {
		return fmt.Errorf("cannot plot empty trip: %w", trip.ErrInvalidInput)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Trip %s (%s)", tr.ID, tr.Style)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Speed (km/h)"

	speedPts := make(plotter.XYs, 0, len(tr.Sequence))
	limitPts := make(plotter.XYs, 0, len(tr.Sequence))
	speedAt := make(map[float64]float64, len(tr.Sequence))
	for _, pt := range tr.Sequence {
		speedPts = append(speedPts, plotter.XY{X: pt.Time, Y: pt.Speed})
		limitPts = append(limitPts, plotter.XY{X: pt.Time, Y: pt.SpeedLimit})
		speedAt[pt.Time] = pt.Speed
	}

	speedLine, err := plotter.NewLine(speedPts)
	if err != nil {
		return fmt.Errorf("build speed line: %w", err)
	}
	speedLine.Color = color.RGBA{R: 0x35, G: 0xb7, B: 0x79, A: 0xff}
	speedLine.Width = vg.Points(1)
	p.Add(speedLine)
	p.Legend.Add("speed", speedLine)

	limitLine, err := plotter.NewLine(limitPts)
	if err != nil {
		return fmt.Errorf("build limit line: %w", err)
	}
	limitLine.Color = color.RGBA{R: 0xff, G: 0x52, B: 0x52, A: 0xff}
	limitLine.Width = vg.Points(1)
	limitLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(limitLine)
	p.Legend.Add("limit", limitLine)

	if len(events) > 0 {
		eventPts := make(plotter.XYs, 0, len(events))
		for _, ev := range events {
			if speed, ok := speedAt[ev.Time]; ok {
				eventPts = append(eventPts, plotter.XY{X: ev.Time, Y: speed})
			}
		}
		if len(eventPts) > 0 {
			scatter, err := plotter.NewScatter(eventPts)
			if err != nil {
				return fmt.Errorf("build event markers: %w", err)
			}
			scatter.Color = color.RGBA{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff}
			scatter.Radius = vg.Points(3)
			p.Add(scatter)
			p.Legend.Add("events", scatter)
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save speed profile plot: %w", err)
	}
	return nil
}
