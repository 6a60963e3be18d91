package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// speedChart renders an HTML line chart of a stored trip's speed profile
// against the posted limits. This is a debugging aid for eyeballing trips
// without the dashboard UI.
// Query params:
//   - trip_id (required)
//   - max_points (optional; default 2000) to reduce payload size
func (s *Server) speedChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Content-Type", "application/json")
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	tripID := r.URL.Query().Get("trip_id")
	if tripID == "" {
		w.Header().Set("Content-Type", "application/json")
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'trip_id' parameter")
		return
	}

	tr, _, err := s.db.GetTrip(tripID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("Failed to retrieve trip: %v", err))
		return
	}

	maxPoints := 2000
	if mp := r.URL.Query().Get("max_points"); mp != "" {
		if v, err := strconv.Atoi(mp); err == nil && v > 10 && v <= 50000 {
			maxPoints = v
		}
	}

	// Downsample by stride to stay within maxPoints
	stride := 1
	if len(tr.Sequence) > maxPoints {
		stride = (len(tr.Sequence) + maxPoints - 1) / maxPoints
	}

	times := make([]string, 0, len(tr.Sequence)/stride+1)
	speeds := make([]opts.LineData, 0, len(tr.Sequence)/stride+1)
	limits := make([]opts.LineData, 0, len(tr.Sequence)/stride+1)
	speedingCount := 0
	for i := 0; i < len(tr.Sequence); i += stride {
		p := tr.Sequence[i]
		times = append(times, strconv.FormatFloat(p.Time, 'f', -1, 64))
		speeds = append(speeds, opts.LineData{Value: p.Speed})
		limits = append(limits, opts.LineData{Value: p.SpeedLimit})
		if p.IsSpeeding == 1 {
			speedingCount++
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Trip Speed Profile", Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Speed Profile: " + tr.ID,
			Subtitle: fmt.Sprintf("style=%s points=%d stride=%d speeding=%d", tr.Style, len(times), stride, speedingCount),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Speed (km/h)"}),
	)

	line.SetXAxis(times).
		AddSeries("speed", speeds, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#35b779"})).
		AddSeries("limit", limits, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}))

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		w.Header().Set("Content-Type", "application/json")
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
