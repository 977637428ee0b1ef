// Package plot draws coordinate systems and the marks that go with them.
//
// A [NumberLine] maps coordinates to points along a line with ticks and
// optional number labels. [Axes] pairs a horizontal and a vertical number
// line that cross at coordinate zero and maps coordinate pairs to diagram
// points. [Curve] samples a parametric function into smooth bezier pieces,
// split at discontinuities. [Brace] and [BoxList] annotate other entities.
//
// Every type here is a scene entity built from shapes and text, so the usual
// transforms and layout helpers apply. Coordinate mappings read the live
// geometry of the axis line, so they stay correct after the plot is moved,
// scaled or rotated.
package plot
