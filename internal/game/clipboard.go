package game

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// writeClipboard puts text on the system clipboard.
func writeClipboard(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}
