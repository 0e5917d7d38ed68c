// Package response holds a raw breach API answer.
package response

import "strings"

// Response is a successful breach API answer as received.
type Response struct {
	contentType string
	body        []byte
}

// New creates a response.
func New(contentType string, body []byte) Response {
	return Response{contentType: contentType, body: body}
}

// ContentType returns the upstream content type, "text/plain" when missing.
func (r Response) ContentType() string {
	if r.contentType == "" {
		return "text/plain"
	}
	return r.contentType
}

// Body returns the raw body.
func (r Response) Body() []byte { return r.body }

// IsJSON reports whether the upstream declared a JSON body.
func (r Response) IsJSON() bool {
	return strings.Contains(strings.ToLower(r.contentType), "application/json")
}
