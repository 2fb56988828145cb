// Package sink serializes a render frame to output formats: standalone
// SVG, machine-readable JSON, and Graphviz DOT with optional SVG or PNG
// rasterization.
package sink
