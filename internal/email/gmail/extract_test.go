package gmail

import (
	"encoding/base64"
	"errors"
	"testing"

	"google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func plainPart(data string) *gmail.MessagePart {
	return &gmail.MessagePart{
		MimeType: "text/plain",
		Body:     &gmail.MessagePartBody{Data: data},
	}
}

func htmlPart(data string) *gmail.MessagePart {
	return &gmail.MessagePart{
		MimeType: "text/html",
		Body:     &gmail.MessagePartBody{Data: data},
	}
}

func TestExtractBody_Simple(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmail.MessagePart
		want    string
	}{
		{
			name: "decoded and trimmed",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: b64("  Hello world \n")},
			},
			want: "Hello world",
		},
		{
			name: "no data yields empty string",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{},
			},
			want: "",
		},
		{
			name:    "nil body yields empty string",
			payload: &gmail.MessagePart{MimeType: "text/plain"},
			want:    "",
		},
		{
			name: "unpadded base64url accepted",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: base64.RawURLEncoding.EncodeToString([]byte("Hi"))},
			},
			want: "Hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractBody(tt.payload)
			if err != nil {
				t.Fatalf("extractBody() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("extractBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractBody_Multipart(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmail.MessagePart
		want    string
	}{
		{
			name: "plain preferred even when html comes first",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					htmlPart(b64("<b>rich</b>")),
					plainPart(b64("plain wins")),
				},
			},
			want: "plain wins",
		},
		{
			name: "first plain part wins",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					plainPart(b64("first")),
					plainPart(b64("second")),
				},
			},
			want: "first",
		},
		{
			name: "html fallback is sanitized",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					htmlPart(b64("<i>Bye</i>")),
				},
			},
			want: "Bye",
		},
		{
			name: "later html does not replace earlier html",
			payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					htmlPart(b64("<p>one</p>")),
					htmlPart(b64("<p>two</p>")),
				},
			},
			want: "one",
		},
		{
			name: "plain without data falls through to html",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					plainPart(""),
					htmlPart(b64("<p>fallback</p>")),
				},
			},
			want: "fallback",
		},
		{
			name: "other mime types ignored",
			payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						MimeType: "application/pdf",
						Body:     &gmail.MessagePartBody{Data: b64("binary")},
					},
				},
			},
			want: "",
		},
		{
			name: "no part with data yields empty string",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					plainPart(""),
					htmlPart(""),
				},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractBody(tt.payload)
			if err != nil {
				t.Fatalf("extractBody() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("extractBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractBody_EmptyPlainPartStillWins(t *testing.T) {
	// A plain part whose data decodes to whitespace still stops the
	// scan: the html part behind it must not be used.
	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			plainPart(b64("   ")),
			htmlPart(b64("<p>should not appear</p>")),
		},
	}

	got, err := extractBody(payload)
	if err != nil {
		t.Fatalf("extractBody() error: %v", err)
	}
	if got != "" {
		t.Errorf("extractBody() = %q, want empty", got)
	}
}

func TestExtractBody_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmail.MessagePart
	}{
		{
			name:    "nil payload",
			payload: nil,
		},
		{
			name: "invalid base64 in simple payload",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: "!!! not base64 !!!"},
			},
		},
		{
			name: "invalid base64 in plain part",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts:    []*gmail.MessagePart{plainPart("%%%")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractBody(tt.payload)
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("extractBody() error = %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "tags and ampersand entity",
			input: "<b>Hi &amp; bye</b>",
			want:  "Hi & bye",
		},
		{
			name:  "non-breaking space",
			input: "<p>A&nbsp;B</p>",
			want:  "A B",
		},
		{
			name:  "angle bracket entities",
			input: "1 &lt; 2 &gt; 0",
			want:  "1 < 2 > 0",
		},
		{
			name:  "non-greedy tag matching",
			input: "<a href=\"x\">link</a> and <span>text</span>",
			want:  "link and text",
		},
		{
			name:  "decoded output is not rescanned",
			input: "literal &amp;lt; stays encoded",
			want:  "literal &lt; stays encoded",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  <div> padded </div>  ",
			want:  "padded",
		},
		{
			name:  "plain text untouched",
			input: "no markup here",
			want:  "no markup here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripHTML(tt.input); got != tt.want {
				t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripHTML_Idempotent(t *testing.T) {
	// For input already free of angle brackets, stripping twice must
	// equal stripping once.
	inputs := []string{
		"plain text",
		"A B",
		"trailing space ",
		"1 + 1 = 2",
	}

	for _, in := range inputs {
		once := stripHTML(in)
		twice := stripHTML(once)
		if once != twice {
			t.Errorf("stripHTML not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestHeaderValue(t *testing.T) {
	headers := []*gmail.MessagePartHeader{
		{Name: "subject", Value: "X"},
		{Name: "Subject", Value: "Y"},
		{Name: "From", Value: "jane@example.com"},
	}

	tests := []struct {
		name   string
		lookup string
		want   string
	}{
		{"first case-insensitive match wins", "Subject", "X"},
		{"exact case", "From", "jane@example.com"},
		{"missing header yields empty string", "Date", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := headerValue(headers, tt.lookup); got != tt.want {
				t.Errorf("headerValue(%q) = %q, want %q", tt.lookup, got, tt.want)
			}
		})
	}
}

func TestConvertMessage(t *testing.T) {
	msg := &gmail.Message{
		Id:           "msg-1",
		Snippet:      "preview",
		InternalDate: 1700000000000,
		Payload: &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Quarterly report"},
				{Name: "From", Value: "Jane Doe <jane@example.com>"},
				{Name: "Date", Value: "Mon, 02 Jan 2006 15:04:05 -0700"},
			},
			Parts: []*gmail.MessagePart{
				plainPart(b64("The numbers are in.")),
			},
		},
	}

	e := convertMessage(msg)

	if e.ID != "msg-1" {
		t.Errorf("ID = %q", e.ID)
	}
	if e.Subject != "Quarterly report" {
		t.Errorf("Subject = %q", e.Subject)
	}
	if e.From.Email != "jane@example.com" {
		t.Errorf("From = %q", e.From.Email)
	}
	if e.Body != "The numbers are in." {
		t.Errorf("Body = %q", e.Body)
	}
	if e.Date.IsZero() {
		t.Error("Date not parsed")
	}
}

func TestConvertMessage_MalformedBody(t *testing.T) {
	msg := &gmail.Message{
		Id:           "msg-2",
		InternalDate: 1700000000000,
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Broken"},
			},
			Body: &gmail.MessagePartBody{Data: "not base64!"},
		},
	}

	e := convertMessage(msg)

	// A malformed body degrades to empty, the rest of the message survives
	if e.Body != "" {
		t.Errorf("Body = %q, want empty", e.Body)
	}
	if e.Subject != "Broken" {
		t.Errorf("Subject = %q", e.Subject)
	}
}
