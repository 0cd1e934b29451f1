package export

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	pdfTitle      = "Shopping list"
	pdfFont       = "DejaVuSansCondensed"
	pdfLineHeight = 8
)

// DejaVu covers Latin, Cyrillic and Greek; core PDF fonts are cp1252 only.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

// WritePDF renders items as an A4 document, one line per item. Pages break
// automatically.
func WritePDF(w io.Writer, items []types.ShoppingListItem) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(pdfTitle, true)
	doc.SetAutoPageBreak(true, 15)
	doc.AddUTF8FontFromBytes(pdfFont, "", regularFont)
	doc.AddUTF8FontFromBytes(pdfFont, "B", boldFont)
	if err := doc.Error(); err != nil {
		return fmt.Errorf("failed to load pdf font: %w", err)
	}

	doc.AddPage()
	doc.SetFont(pdfFont, "B", 18)
	doc.CellFormat(0, 12, pdfTitle, "", 1, "L", false, 0, "")
	doc.Ln(4)

	doc.SetFont(pdfFont, "", 12)
	if len(items) == 0 {
		doc.CellFormat(0, pdfLineHeight, "Your shopping cart is empty.", "", 1, "L", false, 0, "")
	}
	for i, item := range items {
		doc.CellFormat(0, pdfLineHeight, fmt.Sprintf("%d. %s", i+1, Line(item)), "", 1, "L", false, 0, "")
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
