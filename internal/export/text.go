package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pageza/foodgram/backend/internal/types"
)

// WriteText writes one UTF-8 line per item.
func WriteText(w io.Writer, items []types.ShoppingListItem) error {
	bw := bufio.NewWriter(w)
	for _, item := range items {
		if _, err := bw.WriteString(Line(item) + "\n"); err != nil {
			return fmt.Errorf("failed to write shopping list: %w", err)
		}
	}
	return bw.Flush()
}
