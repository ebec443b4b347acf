// Package layout renders a Workout and the coach profile into a paginated
// A4 PDF. The layout is a single vertical cursor that advances by fixed
// increments and breaks pages at fixed thresholds.
package layout

import (
	"alcyxob/fitplan/internal/domain"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	log "github.com/sirupsen/logrus"
)

const (
	// ProductName is stamped in the footer and the watermark.
	ProductName = "FitPlan Pro"

	margin = 20.0

	weekBreakAt     = 80.0
	dayBreakAt      = 60.0
	exerciseBreakAt = 30.0
	adviceBreakAt   = 60.0

	logoSize      = 25.0
	thumbnailSize = 8.0
)

type rgb struct{ r, g, b int }

var (
	accent    = rgb{79, 70, 229}
	black     = rgb{0, 0, 0}
	muted     = rgb{100, 100, 100}
	faint     = rgb{150, 150, 150}
	tableRule = rgb{200, 200, 200}
)

// Exercise table columns, relative to the left margin.
const (
	colName      = 10.0
	colNameImage = 18.0
	colSets      = 70.0
	colReps      = 95.0
	colLoad      = 120.0
	colRest      = 150.0
)

// Document is one rendered plan.
type Document struct {
	Data     []byte
	Filename string
	Pages    int
	// SkippedImages counts logo or thumbnails that could not be decoded.
	SkippedImages int
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithClock fixes the date printed in the footer.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithCompression toggles stream compression. Tests turn it off to grep the output.
func WithCompression(on bool) Option {
	return func(r *Renderer) { r.compress = on }
}

// WithLogger sets where image warnings go.
func WithLogger(logger log.FieldLogger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// Renderer is safe for concurrent use; each Render call owns its own document.
type Renderer struct {
	now      func() time.Time
	compress bool
	logger   log.FieldLogger
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		now:      time.Now,
		compress: true,
		logger:   log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// page carries the state of a single generation.
type page struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	images  *imageRegistry
	logger  log.FieldLogger
	profile *domain.CoachProfile

	width, height float64
	y             float64
	skipped       int
}

// Render lays out workout. profile may be nil. A bad image is logged and
// skipped; the only errors are context cancellation (checked between weeks)
// and failures of the PDF writer itself.
func (r *Renderer) Render(ctx context.Context, workout *domain.Workout, profile *domain.CoachProfile) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := r.now()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetCreator(ProductName, false)
	pdf.SetTitle(workout.DisplayName(), true)

	p := &page{
		pdf:     pdf,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		logger:  r.logger.WithField("workout_id", workout.ID),
		profile: profile,
	}
	p.images = newImageRegistry(pdf)
	p.width, p.height = pdf.GetPageSize()
	p.newPage()

	p.header(workout)
	p.y += 10
	p.info(workout)
	p.y += 10
	if workout.Description != "" {
		p.section("DESCRIPTION", workout.Description)
		p.y += 10
	}
	if err := p.weeks(ctx, workout); err != nil {
		return nil, err
	}
	if workout.DietaryAdvice != "" {
		p.breakIfBelow(adviceBreakAt)
		p.section("DIETARY ADVICE", workout.DietaryAdvice)
	}
	p.footer(now)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return &Document{
		Data:          buf.Bytes(),
		Filename:      Filename(workout.ClientName),
		Pages:         pdf.PageCount(),
		SkippedImages: p.skipped,
	}, nil
}

func (p *page) newPage() {
	p.pdf.AddPage()
	p.y = margin
	p.watermark()
}

// breakIfBelow starts a new page once the cursor has gone past height-threshold.
// The watermark leaves its own font behind, so callers reset theirs on true.
func (p *page) breakIfBelow(threshold float64) bool {
	if p.y > p.height-threshold {
		p.newPage()
		return true
	}
	return false
}

func (p *page) watermark() {
	if p.profile != nil && !p.profile.WatermarkEnabled() {
		return
	}
	p.pdf.SetFont("Helvetica", "B", 60)
	p.setText(tableRule)
	p.pdf.SetAlpha(0.15, "Normal")
	p.pdf.TransformBegin()
	p.pdf.TransformRotate(45, p.width/2, p.height/2)
	p.centered(ProductName, p.height/2)
	p.pdf.TransformEnd()
	p.pdf.SetAlpha(1, "Normal")
}

func (p *page) header(w *domain.Workout) {
	if p.profile != nil && p.profile.Logo != "" {
		p.image(p.profile.Logo, margin, p.y, logoSize, "logo")
	}

	p.pdf.SetFont("Helvetica", "B", 24)
	p.setText(accent)
	p.centered("WORKOUT PLAN", p.y+10)
	p.y += 25

	p.pdf.SetFont("Helvetica", "B", 14)
	p.setText(black)
	p.centered(fmt.Sprintf("%s - %d weeks", w.WorkoutType, w.Duration), p.y)
	p.y += 15

	if p.profile != nil && p.profile.Name != "" {
		p.pdf.SetFont("Helvetica", "", 12)
		p.setText(muted)
		p.centered("Coach: "+p.profile.Name, p.y)
		p.y += 10
	}

	p.setDraw(lineColor(p.profile))
	p.pdf.SetLineWidth(1)
	p.pdf.Line(margin, p.y, p.width-margin, p.y)
	p.y += 10
}

func (p *page) info(w *domain.Workout) {
	mid := p.width / 2
	p.pdf.SetFontSize(12)
	p.setText(black)

	rows := [][4]string{
		{"COACH:", w.CoachName, "CLIENT:", w.ClientName},
		{"TYPE:", w.WorkoutType, "DURATION:", fmt.Sprintf("%d weeks", w.Duration)},
	}
	for _, row := range rows {
		p.pdf.SetFont("Helvetica", "B", 12)
		p.text(row[0], margin, p.y)
		p.text(row[2], mid, p.y)
		p.pdf.SetFont("Helvetica", "", 12)
		p.text(row[1], margin+25, p.y)
		p.text(row[3], mid+30, p.y)
		p.y += 10
	}
}

// section draws a heading and a wrapped 10pt body.
func (p *page) section(title, body string) {
	p.pdf.SetFont("Helvetica", "B", 14)
	p.setText(accent)
	p.text(title, margin, p.y)
	p.y += 8

	p.pdf.SetFont("Helvetica", "", 10)
	p.setText(black)
	n := p.wrapped(body, margin, p.y, p.width-2*margin, 5)
	p.y += float64(n) * 5
}

func (p *page) weeks(ctx context.Context, w *domain.Workout) error {
	p.pdf.SetFont("Helvetica", "B", 14)
	p.setText(accent)
	p.text("WEEKLY PROGRESSION", margin, p.y)
	p.y += 10

	for _, week := range w.Weeks {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.breakIfBelow(weekBreakAt)

		p.pdf.SetFont("Helvetica", "B", 12)
		p.setText(black)
		p.text(fmt.Sprintf("WEEK %d", week.Number), margin, p.y)
		p.y += 8

		if week.Notes != "" {
			p.pdf.SetFont("Helvetica", "I", 9)
			n := p.wrapped(week.Notes, margin, p.y, p.width-2*margin, 4)
			p.y += float64(n) * 4
		}

		for _, day := range week.Days {
			p.day(day)
			p.y += 8
		}
		p.y += 5
	}
	return nil
}

func (p *page) day(day domain.Day) {
	p.breakIfBelow(dayBreakAt)

	p.pdf.SetFont("Helvetica", "B", 11)
	p.setText(accent)
	p.text(day.Name, margin+5, p.y)
	p.y += 8

	if day.Notes != "" {
		p.pdf.SetFont("Helvetica", "I", 8)
		p.setText(black)
		n := p.wrapped(day.Notes, margin+10, p.y, p.width-2*margin-10, 3)
		p.y += float64(n) * 3
	}
	if len(day.Exercises) == 0 {
		return
	}

	p.pdf.SetFont("Helvetica", "B", 8)
	p.setText(black)
	p.text("EXERCISE", margin+colName, p.y)
	p.text("SETS", margin+colSets, p.y)
	p.text("REPS", margin+colReps, p.y)
	p.text("LOAD", margin+colLoad, p.y)
	p.text("REST", margin+colRest, p.y)
	p.y += 5

	p.setDraw(tableRule)
	p.pdf.SetLineWidth(0.3)
	p.pdf.Line(margin+10, p.y, p.width-margin-10, p.y)
	p.y += 3

	p.pdf.SetFont("Helvetica", "", 8)
	for _, ex := range day.Exercises {
		// The column header is not repeated after this break.
		if p.breakIfBelow(exerciseBreakAt) {
			p.pdf.SetFont("Helvetica", "", 8)
		}
		p.setText(black)

		nameX := margin + colName
		if ex.ImageURL != "" {
			p.image(ex.ImageURL, margin+5, p.y-3, thumbnailSize, "exercise "+ex.ID)
			nameX = margin + colNameImage
		}
		p.text(ex.Name, nameX, p.y)
		p.text(ex.Sets, margin+colSets, p.y)
		p.text(ex.Reps, margin+colReps, p.y)
		p.text(ex.Load, margin+colLoad, p.y)
		p.text(ex.Rest, margin+colRest, p.y)
		p.y += 5

		if ex.Notes != "" {
			p.pdf.SetFont("Helvetica", "I", 7)
			n := p.wrapped("Note: "+ex.Notes, margin+15, p.y, p.width-2*margin-20, 3)
			p.y += float64(n) * 3
			p.pdf.SetFont("Helvetica", "", 8)
		}
	}
}

// footer is drawn once, on the last page.
func (p *page) footer(now time.Time) {
	footerY := p.height - 25

	if contact := contactLine(p.profile); contact != "" {
		p.pdf.SetFont("Helvetica", "", 8)
		p.setText(muted)
		for i, line := range p.pdf.SplitLines([]byte(p.tr(contact)), p.width-2*margin) {
			p.centeredRaw(string(line), footerY+float64(i)*3.5)
		}
	}

	p.pdf.SetFont("Helvetica", "I", 8)
	p.setText(faint)
	p.text("Generated by "+ProductName, margin, footerY+10)
	date := p.tr(now.Format("02/01/2006"))
	p.pdf.Text(p.width-margin-p.pdf.GetStringWidth(date), footerY+10, date)
}

// contactLine joins the profile's contact details with " • ".
func contactLine(profile *domain.CoachProfile) string {
	if profile == nil {
		return ""
	}
	var parts []string
	if profile.Email != "" {
		parts = append(parts, "Email: "+profile.Email)
	}
	if profile.Phone != "" {
		parts = append(parts, "Phone: "+profile.Phone)
	}
	if ig := profile.Instagram; ig != "" {
		if !strings.HasPrefix(ig, "@") && !strings.HasPrefix(ig, "http") {
			ig = "@" + ig
		}
		parts = append(parts, "Instagram: "+ig)
	}
	if profile.Facebook != "" {
		parts = append(parts, "Facebook: "+profile.Facebook)
	}
	if site := profile.Website; site != "" {
		if !strings.HasPrefix(site, "http") {
			site = "https://" + site
		}
		parts = append(parts, "Web: "+site)
	}
	return strings.Join(parts, " • ")
}

func (p *page) image(ref string, x, y, size float64, what string) {
	name, err := p.images.register(ref)
	if err != nil {
		p.skipped++
		p.logger.WithError(err).Warnf("skipping undecodable %s image", what)
		return
	}
	p.pdf.ImageOptions(name, x, y, size, size, false, fpdf.ImageOptions{}, 0, "")
}

func (p *page) text(s string, x, y float64) {
	if s == "" {
		return
	}
	p.pdf.Text(x, y, p.tr(s))
}

func (p *page) centered(s string, y float64) {
	p.centeredRaw(p.tr(s), y)
}

// centeredRaw expects s already translated to the font encoding.
func (p *page) centeredRaw(s string, y float64) {
	p.pdf.Text((p.width-p.pdf.GetStringWidth(s))/2, y, s)
}

// wrapped draws s split to width and returns the number of lines used.
func (p *page) wrapped(s string, x, y, width, lineHeight float64) int {
	lines := p.pdf.SplitLines([]byte(p.tr(s)), width)
	for i, line := range lines {
		p.pdf.Text(x, y+float64(i)*lineHeight, string(line))
	}
	return len(lines)
}

func (p *page) setText(c rgb) { p.pdf.SetTextColor(c.r, c.g, c.b) }

func (p *page) setDraw(c rgb) { p.pdf.SetDrawColor(c.r, c.g, c.b) }

func lineColor(profile *domain.CoachProfile) rgb {
	if profile == nil || profile.PDFLineColor == "" {
		return black
	}
	c, err := parseHexColor(profile.PDFLineColor)
	if err != nil {
		return black
	}
	return c
}

// parseHexColor reads "#rrggbb" or "#rgb".
func parseHexColor(s string) (rgb, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return rgb{}, fmt.Errorf("bad colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgb{}, fmt.Errorf("bad colour %q: %w", s, err)
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}, nil
}
