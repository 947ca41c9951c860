package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/ironsheep/image-pen-mcp/internal/imaging"
	"github.com/ironsheep/image-pen-mcp/internal/vector"
)

// PDFOptions tune the PDF export.
type PDFOptions struct {
	// LineWidth is the stroke width in points. Zero selects 1.
	LineWidth float64

	// Title is stored in the document metadata.
	Title string
}

// NewPDF builds a one-page PDF of batches on a width x height point page,
// one point per canvas pixel. Strokes use round caps so single-pixel runs
// still show as dots.
func NewPDF(batches []vector.ColorBatch, width, height int, opts PDFOptions) (*gofpdf.Fpdf, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: page %dx%d", imaging.ErrInvalidRegion, width, height)
	}
	lw := opts.LineWidth
	if lw <= 0 {
		lw = 1
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	pdf.SetCreator("image-pen", false)
	pdf.AddPage()
	pdf.SetLineWidth(lw)
	pdf.SetLineCapStyle("round")

	for _, b := range batches {
		c := strokeColor(b)
		pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		for _, p := range b.Paths {
			for i := 1; i < len(p); i++ {
				pdf.Line(p[i-1].X, p[i-1].Y, p[i].X, p[i].Y)
			}
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build pdf: %w", err)
	}
	return pdf, nil
}

// WritePDF writes the PDF of batches to w.
func WritePDF(w io.Writer, batches []vector.ColorBatch, width, height int, opts PDFOptions) error {
	pdf, err := NewPDF(batches, width, height, opts)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
