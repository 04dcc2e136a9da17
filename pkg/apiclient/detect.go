package apiclient

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	errorCodeField    = "ErrorCode"
	errorMessageField = "ErrorMessage"
)

// detectError reports an API failure carried by a response.
//
// A non-2xx status is always an error. A 2xx response is an error only when
// its body is a JSON object whose ErrorCode coerces to a non-zero integer.
// Field names match case-insensitively and values are coerced leniently:
// "7", 7 and 7.0 are all code 7, and a numeric message is kept as text.
func detectError(status int, reason string, body []byte, requestURI string) *APIError {
	if status < 200 || status > 299 {
		return &APIError{
			Code: status,
			Message: fmt.Sprintf(
				"Response status code does not indicate success: %d (%s).\n%s\nRequest: %s",
				status, reason, body, requestURI,
			),
		}
	}

	if !gjson.ValidBytes(body) {
		return nil
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil
	}

	var apiErr APIError
	doc.ForEach(func(key, value gjson.Result) bool {
		switch {
		case strings.EqualFold(key.String(), errorCodeField):
			apiErr.Code = int(value.Int())
		case strings.EqualFold(key.String(), errorMessageField):
			apiErr.Message = value.String()
		}
		return true
	})
	if apiErr.Code == 0 {
		return nil
	}
	return &apiErr
}
