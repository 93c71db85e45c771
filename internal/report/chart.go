// Package report renders scoring summaries for people: the fraud/non-fraud
// pie chart and number formatting.
package report

import (
    "bytes"
    "fmt"
    "image/color"
    "math"
    "strconv"
    "strings"

    "gonum.org/v1/plot"
    "gonum.org/v1/plot/vg"
    "gonum.org/v1/plot/vg/draw"

    "frauddetect/internal/scoring"
)

const (
    ChartTitle        = "Fraud vs Non-Fraud Cases"
    LabelFraud        = "Fraudulent"
    LabelNonFraud     = "Non-Fraudulent"
    DefaultChartWidth = 5 * vg.Inch
)

type Slice struct {
    Label string
    Value float64
    Color color.Color
}

// Pie is a plot.Plotter drawing slices counter-clockwise from twelve o'clock.
type Pie struct {
    Slices []Slice
}

func (pc *Pie) total() float64 {
    t := 0.0
    for _, s := range pc.Slices { if s.Value > 0 { t += s.Value } }
    return t
}

func (pc *Pie) Plot(c draw.Canvas, _ *plot.Plot) {
    total := pc.total()
    if total <= 0 { return }
    center := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
    r := c.Max.X - c.Min.X
    if h := c.Max.Y - c.Min.Y; h < r { r = h }
    r = r / 2 * 0.95

    start := math.Pi / 2
    for _, s := range pc.Slices {
        if s.Value <= 0 { continue }
        sweep := 2 * math.Pi * s.Value / total
        var path vg.Path
        path.Move(center)
        path.Arc(center, r, start, sweep)
        path.Close()
        c.SetColor(s.Color)
        c.Fill(path)
        start += sweep
    }
}

// swatch is the legend thumbnail of one slice.
type swatch struct{ color color.Color }

func (s swatch) Thumbnail(c *draw.Canvas) {
    pts := []vg.Point{
        {X: c.Min.X, Y: c.Min.Y},
        {X: c.Min.X, Y: c.Max.Y},
        {X: c.Max.X, Y: c.Max.Y},
        {X: c.Max.X, Y: c.Min.Y},
    }
    c.FillPolygon(s.color, pts)
}

// PieChart builds an axis-less plot of slices with a legend showing each
// slice's count and share.
func PieChart(title string, slices []Slice) *plot.Plot {
    p := plot.New()
    p.Title.Text = title
    p.HideAxes()
    pie := &Pie{Slices: slices}
    p.Add(pie)
    total := pie.total()
    for _, s := range slices {
        share := 0.0
        if total > 0 { share = s.Value / total }
        p.Legend.Add(fmt.Sprintf("%s: %s (%s)", s.Label, Count(int(s.Value)), Percent(share)), swatch{s.Color})
    }
    p.Legend.Top = true
    p.Legend.Left = true
    return p
}

// FraudPie is the fraud/non-fraud split of a scoring summary.
func FraudPie(s scoring.Summary, fraudHex, nonFraudHex string) (*plot.Plot, error) {
    fc, err := ParseHexColor(fraudHex)
    if err != nil { return nil, err }
    nc, err := ParseHexColor(nonFraudHex)
    if err != nil { return nil, err }
    return PieChart(ChartTitle, []Slice{
        {Label: LabelFraud, Value: float64(s.Fraud), Color: fc},
        {Label: LabelNonFraud, Value: float64(s.NonFraud), Color: nc},
    }), nil
}

// RenderPNG renders p into PNG bytes.
func RenderPNG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
    wt, err := p.WriterTo(w, h, "png")
    if err != nil { return nil, err }
    var buf bytes.Buffer
    if _, err := wt.WriteTo(&buf); err != nil { return nil, err }
    return buf.Bytes(), nil
}

// ParseHexColor reads "#RRGGBB" or "RRGGBB".
func ParseHexColor(s string) (color.RGBA, error) {
    h := strings.TrimPrefix(s, "#")
    if len(h) != 6 { return color.RGBA{}, fmt.Errorf("color %q is not #RRGGBB", s) }
    v, err := strconv.ParseUint(h, 16, 32)
    if err != nil { return color.RGBA{}, fmt.Errorf("color %q is not #RRGGBB", s) }
    return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
