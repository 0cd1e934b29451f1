// Package export renders an aggregated shopping list as a downloadable file.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pageza/foodgram/backend/internal/types"
)

type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts text, txt and pdf. An empty value means text.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "text", "txt":
		return FormatText, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, value)
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}

func (f Format) Filename() string {
	if f == FormatPDF {
		return "shopping_list.pdf"
	}
	return "shopping_list.txt"
}

// Write renders items to w in format f.
func Write(w io.Writer, f Format, items []types.ShoppingListItem) error {
	switch f {
	case FormatText:
		return WriteText(w, items)
	case FormatPDF:
		return WritePDF(w, items)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Line formats a single shopping list entry.
func Line(item types.ShoppingListItem) string {
	return fmt.Sprintf("%s (%s) — %d", item.Name, item.MeasurementUnit, item.Total)
}
