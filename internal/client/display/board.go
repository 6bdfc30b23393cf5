package display

import (
	"fmt"
	"io"
	"strings"
)

// RenderBoard draws the cell labels returned by the board endpoint, rank 8
// on top. Labels are "  " for empty cells or color letter plus kind code.
func RenderBoard(w io.Writer, cells [8][8]string) {
	files := Cyan + "  a b c d e f g h" + Reset
	fmt.Fprintln(w, files)

	for r := 7; r >= 0; r-- {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s%d%s ", Cyan, r+1, Reset)
		for c := 0; c < 8; c++ {
			label := cells[r][c]
			switch {
			case len(label) != 2 || label[0] == ' ':
				sb.WriteString(". ")
			case label[0] == 'w':
				// White pieces - Blue
				fmt.Fprintf(&sb, "%s%c%s ", Blue, label[1], Reset)
			default:
				// Black pieces - Red, lowercase
				fmt.Fprintf(&sb, "%s%c%s ", Red, label[1]+('a'-'A'), Reset)
			}
		}
		fmt.Fprintf(&sb, "%s%d%s", Cyan, r+1, Reset)
		fmt.Fprintln(w, sb.String())
	}
	fmt.Fprintln(w, files)
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(turn string) string {
	if turn == "w" {
		return Blue + "White" + Reset
	}
	return Red + "Black" + Reset
}
