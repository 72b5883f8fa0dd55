package graphs

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/2beens/fitlog/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
	"go.opentelemetry.io/otel/attribute"
)

type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
)

var ErrEmptySeries = errors.New("no data points and no boundaries given")

const (
	defaultWidth  = 900
	defaultHeight = 450

	// keep rendered PNGs around for a short while only, new log entries
	// must show up on the next page load
	renderedGraphCacheExpireSeconds = 60

	maxMajorTicks = 10
)

type Point struct {
	Date  time.Time
	Value float64
}

// Boundaries optionally pins the first and last day of a bar graph,
// so that sparse data still renders over the full requested range.
type Boundaries struct {
	Start time.Time
	End   time.Time
}

type Request struct {
	Label      string
	Kind       Kind
	Points     []Point
	Boundaries *Boundaries
}

// Renderer turns date-indexed series into base64-encoded PNGs.
// The underlying chart backend keeps shared drawing state, so all
// rendering is serialized behind a mutex.
type Renderer struct {
	mu     sync.Mutex
	cache  *freecache.Cache
	width  int
	height int
}

func NewRenderer() *Renderer {
	megabyte := 1024 * 1024
	return &Renderer{
		cache:  freecache.NewCache(10 * megabyte),
		width:  defaultWidth,
		height: defaultHeight,
	}
}

// Render produces the graph PNG for the given request and returns it
// base64 encoded. Output is deterministic for identical inputs, which
// also makes it cacheable.
func (r *Renderer) Render(ctx context.Context, req Request) (_ string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "graphs.render")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("kind", string(req.Kind)))
	span.SetAttributes(attribute.Int("points", len(req.Points)))

	cacheKey := req.cacheKey()
	if cached, cacheErr := r.cache.Get(cacheKey); cacheErr == nil {
		log.Tracef("graph [%s] served from cache", req.Label)
		return string(cached), nil
	}

	points := normalize(req.Points)

	if req.Kind == KindBar && req.Boundaries != nil {
		points = padBoundaries(points, req.Boundaries.Start, req.Boundaries.End)
	}

	if len(points) == 0 {
		return "", ErrEmptySeries
	}

	if req.Kind == KindBar {
		points = denseReindex(points)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var buf bytes.Buffer
	switch req.Kind {
	case KindBar:
		err = r.renderBar(&buf, req.Label, points)
	case KindLine:
		err = r.renderLine(&buf, req.Label, points)
	default:
		return "", fmt.Errorf("unknown graph kind: %q", req.Kind)
	}
	if err != nil {
		return "", fmt.Errorf("render %s graph: %w", req.Kind, err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	if err := r.cache.Set(cacheKey, []byte(encoded), renderedGraphCacheExpireSeconds); err != nil {
		log.Tracef("failed to cache rendered graph [%s]: %s", req.Label, err)
	}

	return encoded, nil
}

// RenderPie produces a pie chart PNG from labeled shares, base64 encoded.
// All-zero or empty shares yield an empty string instead of an error, the
// nutrition page renders fine without the pie.
func (r *Renderer) RenderPie(ctx context.Context, label string, shares map[string]float64) (_ string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "graphs.renderPie")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var total float64
	keys := make([]string, 0, len(shares))
	for k, v := range shares {
		keys = append(keys, k)
		total += v
	}
	if total <= 0 {
		return "", nil
	}
	sort.Strings(keys)

	values := make([]chart.Value, 0, len(keys))
	for _, k := range keys {
		if shares[k] <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.1f", k, shares[k]),
			Value: shares[k],
		})
	}

	pie := chart.PieChart{
		Title:  label,
		Width:  r.height, // square
		Height: r.height,
		Values: values,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render pie graph: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (r *Renderer) renderBar(buf *bytes.Buffer, label string, points []Point) error {
	// with more than a week of bars, label only every k-th one to
	// keep roughly maxMajorTicks readable ticks
	labelEvery := 1
	if len(points) > 7 {
		labelEvery = int(math.Ceil(float64(len(points)) / float64(maxMajorTicks)))
	}

	bars := make([]chart.Value, 0, len(points))
	var maxVal float64
	for i, p := range points {
		barLabel := ""
		if i%labelEvery == 0 {
			barLabel = p.Date.Format("01/02")
		}
		bars = append(bars, chart.Value{
			Label: barLabel,
			Value: p.Value,
		})
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}

	if maxVal == 0 {
		// the bar chart renderer cannot scale an all-zero range
		maxVal = 1
	}

	barWidth := (r.width - 100) / len(bars)
	if barWidth < 2 {
		barWidth = 2
	}
	if barWidth > 60 {
		barWidth = 60
	}

	graph := chart.BarChart{
		Title:    label,
		Width:    r.width,
		Height:   r.height,
		BarWidth: barWidth,
		XAxis: chart.Style{
			TextRotationDegrees: 45,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxVal * 1.1},
		},
		Bars: bars,
	}

	return graph.Render(chart.PNG, buf)
}

func (r *Renderer) renderLine(buf *bytes.Buffer, label string, points []Point) error {
	if len(points) == 1 {
		// the line renderer needs at least two points
		points = append(points, points[0])
	}

	xValues := make([]time.Time, 0, len(points))
	yValues := make([]float64, 0, len(points))
	minVal := math.MaxFloat64
	var maxVal float64
	for _, p := range points {
		xValues = append(xValues, p.Date)
		yValues = append(yValues, p.Value)
		if p.Value < minVal {
			minVal = p.Value
		}
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}

	if maxVal == 0 {
		maxVal = 150
	}
	yMin := minVal * 0.8
	if yMin < 0 {
		yMin = 0
	}

	graph := chart.Chart{
		Title:  label,
		Width:  r.width,
		Height: r.height,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("01/02"),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: yMin, Max: maxVal * 1.2},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    label,
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	return graph.Render(chart.PNG, buf)
}

// normalize truncates every point to midnight UTC of its date, merges
// duplicate days by summing and returns the points date-ordered.
func normalize(points []Point) []Point {
	perDay := make(map[time.Time]float64)
	for _, p := range points {
		day := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, time.UTC)
		perDay[day] += p.Value
	}

	normalized := make([]Point, 0, len(perDay))
	for day, val := range perDay {
		normalized = append(normalized, Point{Date: day, Value: val})
	}
	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].Date.Before(normalized[j].Date)
	})
	return normalized
}

// padBoundaries makes sure the series starts and ends exactly at the
// requested range, inserting zero bars when needed.
func padBoundaries(points []Point, start, end time.Time) []Point {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	if len(points) == 0 {
		if start.Equal(end) {
			return []Point{{Date: start}}
		}
		return []Point{{Date: start}, {Date: end}}
	}

	if !points[0].Date.Equal(start) && start.Before(points[0].Date) {
		points = append([]Point{{Date: start}}, points...)
	}
	if last := points[len(points)-1].Date; !last.Equal(end) && end.After(last) {
		points = append(points, Point{Date: end})
	}
	return points
}

// denseReindex fills every missing calendar day between the first and the
// last point with a zero value, so bar charts show gaps as empty bars.
func denseReindex(points []Point) []Point {
	if len(points) < 2 {
		return points
	}

	perDay := make(map[time.Time]float64, len(points))
	for _, p := range points {
		perDay[p.Date] = p.Value
	}

	first := points[0].Date
	last := points[len(points)-1].Date

	var dense []Point
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		dense = append(dense, Point{Date: day, Value: perDay[day]})
	}
	return dense
}

func (req Request) cacheKey() []byte {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s|%s|", req.Label, req.Kind)
	if req.Boundaries != nil {
		_, _ = fmt.Fprintf(h, "%d-%d|", req.Boundaries.Start.Unix(), req.Boundaries.End.Unix())
	}
	for _, p := range req.Points {
		_, _ = fmt.Fprintf(h, "%d:%f;", p.Date.Unix(), p.Value)
	}
	return h.Sum(nil)
}
