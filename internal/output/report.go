package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"

	"github.com/rsharma/mailbrief/internal/digest"
	"github.com/rsharma/mailbrief/internal/email"
)

// ruleWidth is the width of the '=' and '-' rule lines in the report
const ruleWidth = 50

// Report writes the full per-email report to the given writer
func Report(w io.Writer, r *digest.Report) error {
	if len(r.Results) == 0 {
		fmt.Fprintln(w, "No emails found.")
		return nil
	}

	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))

	total := len(r.Results)
	for i, res := range r.Results {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "[Email %d/%d]\n", i+1, total)
		fmt.Fprintf(w, "From: %s\n", res.Email.From)
		fmt.Fprintf(w, "Subject: %s\n", res.Email.Subject)
		fmt.Fprintf(w, "Date: %s\n", displayDate(res.Email))
		fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
		fmt.Fprintln(w, "Summary:")
		fmt.Fprintln(w, wordWrap(res.Summary, 78))
		// When summarization failed, the provider snippet still gives
		// the reader a glimpse of the message
		if res.Err != nil && res.Email.Snippet != "" {
			fmt.Fprintf(w, "Preview: %s\n", truncate(res.Email.Snippet, 78))
		}
		fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
	}

	return nil
}

// Overview writes a compact one-line-per-email table
func Overview(w io.Writer, r *digest.Report) error {
	if len(r.Results) == 0 {
		return nil
	}

	tw := tablewriter.NewWriter(w)
	tw.Header("#", "From", "Subject", "Summary")

	for i, res := range r.Results {
		_ = tw.Append([]string{
			fmt.Sprintf("%d", i+1),
			truncate(res.Email.From.String(), 30),
			truncate(res.Email.Subject, 40),
			truncate(strings.ReplaceAll(res.Summary, "\n", " "), 60),
		})
	}

	return tw.Render()
}

// displayDate prefers the raw Date header the way the sender wrote it
func displayDate(e email.Email) string {
	if e.RawDate != "" {
		return e.RawDate
	}
	if !e.Date.IsZero() {
		return e.Date.Format("Mon, 02 Jan 2006 15:04:05 -0700")
	}
	return ""
}

// wordWrap wraps text at the specified width
func wordWrap(text string, width int) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		if len(line) <= width {
			result.WriteString(line)
			result.WriteString("\n")
			continue
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if len(currentLine)+1+len(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
		result.WriteString("\n")
	}

	return strings.TrimSuffix(result.String(), "\n")
}

// truncate shortens s to max characters, cutting on a rune boundary so
// multi-byte subjects and names never render as broken runes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}
