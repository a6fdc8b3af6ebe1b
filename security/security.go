package security

import (
	"mime"
	"net/http"
)

// IsJSONContentType reports whether a Content-Type header denotes a JSON body.
func IsJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// RedactHeaders returns a copy of headers with credentials masked, for logging.
func RedactHeaders(headers http.Header) http.Header {
	out := headers.Clone()
	for _, header := range []string{"Authorization", "Cookie", "Set-Cookie", "X-Api-Key"} {
		if out.Get(header) != "" {
			out.Set(header, "[redacted]")
		}
	}
	return out
}
