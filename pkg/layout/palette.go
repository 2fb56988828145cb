package layout

// branchPalette is the fixed cyclic palette for top-level branches.
// Each direct child of the root picks a color by sibling index; all of its
// descendants inherit it. Color is a branch identity, not a per-node
// property.
var branchPalette = []string{
	"#e8590c", // orange
	"#1971c2", // blue
	"#2f9e44", // green
	"#9c36b5", // purple
	"#e03131", // red
	"#0c8599", // teal
	"#f08c00", // amber
	"#6741d9", // violet
}

// BranchColor returns the color for the top-level branch with the given
// sibling index. Indexes beyond the palette wrap around.
func BranchColor(index int) string {
	return branchPalette[index%len(branchPalette)]
}

// PaletteSize returns the number of distinct branch colors.
func PaletteSize() int {
	return len(branchPalette)
}
