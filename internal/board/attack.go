package board

import "chesscore/internal/core"

// IsUnderAttack reports whether any piece of color can move onto sq under
// the current occupancy, regardless of whose turn it is
func (b *Board) IsUnderAttack(sq core.Square, color core.Color) bool {
	if !sq.Valid() {
		return false
	}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := b.squares[r][c]
			if p.IsEmpty() || p.Color != color {
				continue
			}
			if p.CanMove(b, core.Sq(r, c), sq) {
				return true
			}
		}
	}
	return false
}

// IsCheck reports whether the King of color is attacked by the opponent
func (b *Board) IsCheck(color core.Color) bool {
	king, ok := b.KingSquare(color)
	if !ok {
		return false
	}
	return b.IsUnderAttack(king, core.OppositeColor(color))
}

// IsCheckmate reports whether color is in check with no move of any of its
// pieces that removes the check. A board without that King is terminal.
func IsCheckmate(b *Board, color core.Color) bool {
	king, ok := b.KingSquare(color)
	if !ok {
		return true
	}
	opp := core.OppositeColor(color)
	if !b.IsUnderAttack(king, opp) {
		return false
	}

	// King escapes first, they are the cheapest to find
	kp := b.squares[king.Row][king.Col]
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			to := core.Sq(king.Row+dr, king.Col+dc)
			if !kp.CanMove(b, king, to) {
				continue
			}
			if !b.simulate(king, to).IsUnderAttack(to, opp) {
				return false
			}
		}
	}

	// Blocks and captures by any piece
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := b.squares[r][c]
			from := core.Sq(r, c)
			if p.IsEmpty() || p.Color != color || from == king {
				continue
			}
			for tr := 0; tr < 8; tr++ {
				for tc := 0; tc < 8; tc++ {
					to := core.Sq(tr, tc)
					if !p.CanMove(b, from, to) {
						continue
					}
					if !b.simulate(from, to).IsUnderAttack(king, opp) {
						return false
					}
				}
			}
		}
	}
	return true
}

func (b *Board) IsCheckmate(color core.Color) bool {
	return IsCheckmate(b, color)
}

// simulate returns a copy of the board with the piece relocated. The turn
// is left untouched and no listeners fire.
func (b *Board) simulate(from, to core.Square) *Board {
	sim := b.Copy()
	sim.relocate(from, to)
	return sim
}
