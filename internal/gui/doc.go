// Package gui is the raylib window renderer: particles as circles, springs
// as lines, the ground as a horizontal line, and a left click appends a
// particle at the pointer.
package gui
