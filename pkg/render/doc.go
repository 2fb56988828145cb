// Package render turns a laid-out tree into a drawable frame: node boxes
// with their branch colors plus routed connector paths. Sinks under
// render/sink serialize a frame to concrete output formats.
package render
