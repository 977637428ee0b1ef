// Package sink writes a canvas out as SVG, as a JSON description, or via
// rsvg-convert as PNG and PDF.
//
// Coordinates are mapped through the canvas frame: diagram space is y-up
// around the frame center, output space is y-down pixels from the top left.
// Entities are drawn in paint order (ascending z-index, then tree order).
package sink
