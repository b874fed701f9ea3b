package cvpdf

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"
)

const (
	photoBox   = 100.0
	margin     = 50.0
	lineHeight = 16.0
	fontFamily = "cvsans"
)

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	defaultRegularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	defaultBoldFont []byte
)

// Renderer draws a Layout as PDF. Text is written with a UTF-8 TrueType font.
type Renderer struct {
	logger   zerolog.Logger
	regular  []byte
	bold     []byte
	compress bool
}

// NewRenderer creates a Renderer using the bundled DejaVu Sans font
func NewRenderer(logger zerolog.Logger) *Renderer {
	return &Renderer{
		logger:   logger,
		regular:  defaultRegularFont,
		bold:     defaultBoldFont,
		compress: true,
	}
}

// NewRendererWithFont creates a Renderer using the TrueType fonts at regularPath and boldPath.
// An empty boldPath reuses the regular font for headings.
func NewRendererWithFont(logger zerolog.Logger, regularPath, boldPath string) (*Renderer, error) {
	regular, err := os.ReadFile(regularPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CV font %s: %w", regularPath, err)
	}
	bold := regular
	if boldPath != "" {
		if bold, err = os.ReadFile(boldPath); err != nil {
			return nil, fmt.Errorf("failed to read CV bold font %s: %w", boldPath, err)
		}
	}
	return &Renderer{logger: logger, regular: regular, bold: bold, compress: true}, nil
}

// Render writes layout as a PDF document to w
func (r *Renderer) Render(layout Layout, w io.Writer) error {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.AddUTF8FontFromBytes(fontFamily, "", r.regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", r.bold)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to load CV font: %w", err)
	}
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(layout.Title, true)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 25)
	pdf.CellFormat(0, 30, layout.Title, "", 1, "C", false, 0, "")
	pdf.Ln(lineHeight)

	if layout.PhotoPath != "" {
		r.drawPhoto(pdf, layout.PhotoPath)
	}

	for _, section := range layout.Sections {
		pdf.SetFont(fontFamily, "B", 16)
		pdf.CellFormat(0, 22, section.Heading, "", 1, "L", false, 0, "")

		pdf.SetFont(fontFamily, "", 12)
		for _, line := range section.Lines {
			if line == "" {
				pdf.Ln(lineHeight / 2)
				continue
			}
			pdf.MultiCell(0, lineHeight, line, "", "L", false)
		}
		pdf.Ln(lineHeight)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render CV: %w", err)
	}
	return nil
}

// drawPhoto centers the photo scaled to fit a 100x100 box. Unreadable photos are skipped.
func (r *Renderer) drawPhoto(pdf *gofpdf.Fpdf, photoPath string) {
	imageType := imageTypeFor(photoPath)
	if imageType == "" {
		r.logger.Warn().Str("photo", photoPath).Msg("Photo format cannot be embedded in CV, skipping")
		return
	}
	if _, err := os.Stat(photoPath); err != nil {
		r.logger.Warn().Err(err).Str("photo", photoPath).Msg("Photo not readable, skipping")
		return
	}

	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: false}
	info := pdf.RegisterImageOptions(photoPath, opts)
	if err := pdf.Error(); err != nil || info == nil {
		r.logger.Warn().Err(err).Str("photo", photoPath).Msg("Photo could not be decoded, skipping")
		pdf.ClearError()
		return
	}

	width, height := fitBox(info.Width(), info.Height(), photoBox)
	pageWidth, _ := pdf.GetPageSize()
	x := (pageWidth - width) / 2
	y := pdf.GetY()
	pdf.ImageOptions(photoPath, x, y, width, height, false, opts, 0, "")
	pdf.SetY(y + height + lineHeight)
}

func imageTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "JPG"
	case ".png":
		return "PNG"
	default:
		return ""
	}
}

// fitBox scales width x height to fit inside a box x box square, keeping the aspect ratio
func fitBox(width, height, box float64) (float64, float64) {
	if width <= 0 || height <= 0 {
		return box, box
	}
	scale := math.Min(box/width, box/height)
	return width * scale, height * scale
}
