package contract

import (
	"fmt"
	"os"
	"time"

	"github.com/annolab/pivot/schema"
	"github.com/fatih/color"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Color variables for console output.
var (
	SuccessColor = color.New(color.FgGreen)            // successful results
	FailureColor = color.New(color.FgRed, color.Bold)  // failed results
	OtherColor   = color.New(color.FgYellow)           // collapsed "Other" bucket
	AccentColor  = color.New(color.FgCyan, color.Bold) // table accents
)

// StatusLabel returns a status string, colored when enabled.
func StatusLabel(status schema.ResultStatus, useColors bool) string {
	text := string(status)
	if !useColors {
		return text
	}
	switch status {
	case schema.StatusSuccess:
		return SuccessColor.Sprint(text)
	case schema.StatusFailure:
		return FailureColor.Sprint(text)
	default:
		return text
	}
}

// CategoryLabel returns a category string, highlighting the collapsed
// "Other" bucket when colors are enabled.
func CategoryLabel(category string, other bool, useColors bool) string {
	if other && useColors {
		return OtherColor.Sprint(category)
	}
	return category
}

// TruncateLabel shortens a label to maxWidth runes, replacing the cut text
// with a leading ellipsis so the distinctive tail stays visible.
func TruncateLabel(label string, maxWidth int) string {
	if maxWidth <= 0 {
		return label
	}
	runes := []rune(label)
	if len(runes) <= maxWidth {
		return label
	}
	if maxWidth <= 3 {
		return string(runes[:maxWidth])
	}
	return "..." + string(runes[len(runes)-(maxWidth-3):])
}

// SelectOutputFile returns the appropriate file handle for output. An empty
// path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning %s: %v\n", msg, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warning %s\n", msg)
}
