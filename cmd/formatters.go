package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// formatSize converts bytes to human-readable format
func formatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

// formatAge converts a time to a human-readable age string
func formatAge(t time.Time) string {
	return humanize.Time(t)
}

// formatDate converts a time to a short date string
func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006 15:04")
}

// printHeader prints a styled header
func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("━", len(title)))
	fmt.Fprintln(w)
}

// printJSON marshals data to JSON and prints it
func printJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// confirmAction prompts the user for confirmation
func confirmAction(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s (y/N): ", prompt)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
