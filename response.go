package cohere

import (
	"mime"
	"net/http"
	"regexp"

	"github.com/tidwall/gjson"
)

// jsonContentType matches media types the client decodes as JSON.
var jsonContentType = regexp.MustCompile(`(?i)\bjson$`)

// Response is the result of a call.
//
// For non-streaming calls Body holds the decoded JSON value unchanged and Raw
// holds the bytes it was decoded from. When a stream was requested without a
// handler the body is kept in Raw undecoded. When a handler consumed the
// stream both are nil.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       any
	Raw        []byte
}

// Get looks up a dotted path (for example "generations.0.text") in the raw body.
func (r *Response) Get(path string) gjson.Result {
	if r == nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.Raw, path)
}

// ContentType returns the response media type without parameters.
func (r *Response) ContentType() string {
	if r == nil {
		return ""
	}
	return mediaType(r.Header.Get("Content-Type"))
}

func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return header
	}
	return mt
}

// isJSON reports whether a Content-Type header names a JSON media type.
func isJSON(header string) bool {
	return jsonContentType.MatchString(mediaType(header))
}
