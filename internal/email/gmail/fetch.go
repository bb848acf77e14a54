package gmail

import (
	"fmt"
	"os"
	"time"

	"google.golang.org/api/gmail/v1"

	"github.com/rsharma/mailbrief/internal/email"
)

// convertMessage converts a Gmail message to our Email type
func convertMessage(msg *gmail.Message) email.Email {
	e := email.Email{
		ID:      msg.Id,
		Snippet: msg.Snippet,
	}

	if msg.Payload == nil {
		return e
	}

	// Extract headers
	e.Subject = headerValue(msg.Payload.Headers, "Subject")
	e.From = email.ParseAddress(headerValue(msg.Payload.Headers, "From"))
	e.RawDate = headerValue(msg.Payload.Headers, "Date")

	if t, err := parseDate(e.RawDate); err == nil {
		e.Date = t
	}

	// Fallback to internal timestamp if date parsing failed
	if e.Date.IsZero() {
		e.Date = time.Unix(msg.InternalDate/1000, 0)
	}

	// Extract body. A payload we cannot decode costs us that one body,
	// never the batch.
	body, err := extractBody(msg.Payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: message %s: %v\n", msg.Id, err)
		body = ""
	}
	e.Body = body

	return e
}

// parseDate attempts to parse various date formats
func parseDate(s string) (time.Time, error) {
	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 MST",
		"2 Jan 2006 15:04:05 -0700",
		"Mon, 02 Jan 2006 15:04:05 -0700 (MST)",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
