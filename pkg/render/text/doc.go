// Package text renders track layouts as plain text.
//
// # Overview
//
// Two forms are provided:
//
//   - [Text] lists every track and its members, one line per node
//   - [Grid] projects member positions onto a fixed-size character grid
//
// # Grid Projection
//
// The grid is W columns by H rows, initialized to '.'. Scale factors are
// taken from the region of the first member encountered: W/region width
// horizontally and H/region height vertically. Each member lands in column
// round(x * W/width) and row H - round(y * H/height), so north is up. Cells
// that fall outside the grid are clamped to the nearest edge.
//
// Each cell is drawn with its track's [Glyph]: the digits, lowercase and
// uppercase letters for ids 0 through 61 and '-' for anything else. Later
// tracks overwrite earlier ones when they share a cell.
//
//	s, err := text.Grid(l, text.DefaultWidth, text.DefaultHeight)
package text
