package gmail

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/gmail/v1"
)

// ErrMalformedPayload is returned when a message payload cannot be
// decoded. Callers treat it per-message: the message gets an empty body
// and the batch continues.
var ErrMalformedPayload = errors.New("malformed message payload")

// tagPattern matches a single angle-bracket tag. Non-greedy, so it never
// spans from one tag's opening bracket to a later tag's closing bracket.
var tagPattern = regexp.MustCompile(`<.*?>`)

// entityReplacer decodes the handful of entities that show up in
// marketing email bodies. Single pass: decoded output is never rescanned,
// so "&amp;lt;" comes out as the literal "&lt;".
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// extractBody extracts a plaintext body from a Gmail message payload.
//
// Multipart payloads are scanned one level deep, in part order. The first
// text/plain part carrying data wins outright, even when it decodes to an
// empty string. A text/html part is used only while no body has been set,
// and scanning continues afterward so that a plain-text part appearing
// later in the list still takes precedence over earlier HTML.
func extractBody(payload *gmail.MessagePart) (string, error) {
	if payload == nil {
		return "", fmt.Errorf("%w: message has no payload", ErrMalformedPayload)
	}

	if len(payload.Parts) > 0 {
		var body string
		for _, part := range payload.Parts {
			if part == nil || part.Body == nil || part.Body.Data == "" {
				continue
			}

			switch part.MimeType {
			case "text/plain":
				decoded, err := decodeBody(part.Body.Data)
				if err != nil {
					return "", err
				}
				return strings.TrimSpace(decoded), nil
			case "text/html":
				if body != "" {
					continue
				}
				decoded, err := decodeBody(part.Body.Data)
				if err != nil {
					return "", err
				}
				body = stripHTML(decoded)
			}
		}
		return strings.TrimSpace(body), nil
	}

	// Simple, non-multipart payload
	if payload.Body == nil || payload.Body.Data == "" {
		return "", nil
	}
	decoded, err := decodeBody(payload.Body.Data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(decoded), nil
}

// decodeBody decodes the URL-safe base64 body data. Gmail pads its
// output, but some gateways strip the padding, so both forms are accepted.
func decodeBody(data string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return string(decoded), nil
}

// stripHTML removes markup from an HTML body on a best-effort basis.
//
// This is a heuristic tag stripper, not a parser: it will mis-handle tags
// containing '>' inside attribute values, and it gives scripts and styles
// no special treatment. Good enough for turning an HTML-only email into
// something a summarizer can read.
func stripHTML(html string) string {
	text := tagPattern.ReplaceAllString(html, "")
	text = entityReplacer.Replace(text)
	return strings.TrimSpace(text)
}

// headerValue returns the value of the first header matching name,
// case-insensitively, or "" when the header is absent.
func headerValue(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if h != nil && strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
