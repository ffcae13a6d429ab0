// Package ui provides colored terminal output helpers for the CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const headerWidth = 60

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgBlue)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	stepColor    = color.New(color.FgMagenta)
)

// Header prints a boxed section header.
func Header(text string) {
	line := strings.Repeat("=", headerWidth)
	headerColor.Println(line)
	headerColor.Println(center(text, headerWidth))
	headerColor.Println(line)
}

// Step prints a numbered progress step.
func Step(current, total int, text string) {
	stepColor.Printf("[%d/%d] ", current, total)
	fmt.Println(text)
}

// Success prints a success message.
func Success(text string) {
	successColor.Printf("✓ %s\n", text)
}

// Info prints an informational message.
func Info(text string) {
	infoColor.Printf("ℹ %s\n", text)
}

// Warning prints a warning message.
func Warning(text string) {
	warningColor.Printf("⚠ %s\n", text)
}

// Error prints an error message.
func Error(text string) {
	errorColor.Printf("✗ %s\n", text)
}

// BlueText prints text in blue.
func BlueText(text string) {
	infoColor.Println(text)
}

// YellowText prints text in yellow.
func YellowText(text string) {
	warningColor.Println(text)
}

// center left-pads text to sit in the middle of width. Text wider than
// width is returned unchanged.
func center(text string, width int) string {
	if len(text) >= width {
		return text
	}
	return strings.Repeat(" ", (width-len(text))/2) + text
}
