package warehouse

import (
	"fmt"
	"strings"

	"github.com/skyquarter/airlift/internal/domain/asset"
)

// FormatStockReport renders the attribute census as the text block shown on
// the warehouse's map marker and in the coalition broadcast. Attributes
// appear in classification order so repeated reports line up visually.
func FormatStockReport(name string, census map[asset.Attribute]int) string {
	var b strings.Builder
	total := 0
	for _, count := range census {
		total += count
	}
	fmt.Fprintf(&b, "Warehouse %s: %d assets in stock\n", name, total)
	for _, attr := range asset.Attributes() {
		fmt.Fprintf(&b, "  %-18s %d\n", attr, census[attr])
	}
	return strings.TrimRight(b.String(), "\n")
}
