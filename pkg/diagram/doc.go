// Package diagram reads diagram documents and draws them on a canvas.
//
// A document is TOML (or the equivalent JSON): a [canvas] table for the
// frame and a list of [[element]] entries drawn in order.
//
//	[canvas]
//	background = "black"
//	fit = true
//
//	[[element]]
//	id = "box"
//	kind = "square"
//	fill = "blue"
//	corner_radius = 0.2
//
//	[[element]]
//	id = "label"
//	kind = "text"
//	text = "hello"
//	next_to = { target = "box", direction = "down" }
//
//	[[element]]
//	kind = "arrow"
//	from = "label"
//	to = [4, 0]
//
// # Elements
//
// Kinds are square, rectangle, polygon, regular_polygon, triangle, circle,
// dot, arc, line, arrow, text, graph, number_line, axes and brace. Graphs
// take their vertices, edges and layout from an [element.graph] table;
// number lines and axes take their ranges from an [element.plot] table. A
// brace spans from and to, or one edge of the element named by from.
//
// # Placement
//
// After an element is built its placement directives run in this order:
// scale, rotate (degrees, in place), move_to, next_to, align_to, to_edge,
// shift. move_to, from and to take either the id of an earlier element or
// a point [x, y]. Directions are up, down, left, right, ul, ur, dl, dr and
// center.
//
// Every document problem (unknown kinds or keys, bad directions, dangling
// references) is reported as an INVALID_DIAGRAM error, except for syntax
// errors, which are INVALID_FORMAT.
package diagram
