// Package ansi converts terminal output containing ANSI SGR escape sequences
// into HTML with inline styles, suitable for mail clients that ignore
// stylesheets.
package ansi
