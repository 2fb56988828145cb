package layout

import "unicode/utf8"

// Layout geometry constants, in layout units. One layout unit maps to one
// pixel at focus scale.
const (
	// NodeWidth is the fixed width of every node box. Depth maps linearly
	// to x regardless of content size.
	NodeWidth = 172.0

	// BaseHeight is the height of a collapsed node and the floor for an
	// expanded one.
	BaseHeight = 44.0

	// LevelGap is the horizontal gap between a parent column and its
	// children's column.
	LevelGap = 56.0

	// SiblingGap is the vertical gap between consecutive sibling subtrees.
	SiblingGap = 18.0
)

// Text estimation constants. Heights are estimated from character counts
// rather than measured from rendered text: the estimate is deterministic,
// cheap, and independent of any rendering surface, at the cost of
// pixel-perfect accuracy.
const (
	// topicCharsPerLine is the assumed wrap width for the topic label.
	// Topics render bold at a larger size, so fewer characters fit.
	topicCharsPerLine = 18

	// contentCharsPerLine is the assumed wrap width for body content.
	contentCharsPerLine = 26

	topicLineHeight   = 20.0
	contentLineHeight = 14.0

	// chromeHeight covers the header bar and vertical padding.
	chromeHeight = 18.0

	// blockGap separates the topic block from the content block.
	blockGap = 6.0
)

// EstimateHeight estimates the rendered height of a node.
// Collapsed nodes show no content and get the fixed base height.
// The result never drops below BaseHeight.
func EstimateHeight(topic, content string, collapsed bool) float64 {
	if collapsed {
		return BaseHeight
	}

	h := chromeHeight + float64(wrapLines(topic, topicCharsPerLine))*topicLineHeight
	if content != "" {
		h += blockGap + float64(wrapLines(content, contentCharsPerLine))*contentLineHeight
	}

	return max(h, BaseHeight)
}

// wrapLines estimates how many lines s occupies when wrapped at perLine
// characters. Even an empty string occupies one line.
func wrapLines(s string, perLine int) int {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return 1
	}
	return (n + perLine - 1) / perLine
}
