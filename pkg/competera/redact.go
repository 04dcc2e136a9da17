package competera

import (
	"errors"
	"regexp"

	"github.com/samvad-hq/competera-client/pkg/apiclient"
)

const redactedValue = "***"

var apiKeyParam = regexp.MustCompile(`(?i)(\b` + paramAPIKey + `=)[^&\s"']*`)

// Redact masks the api_key query value anywhere in text. Error messages for
// failed calls quote the full request URI, credentials included.
func Redact(text string) string {
	return apiKeyParam.ReplaceAllString(text, "${1}"+redactedValue)
}

// RedactError returns err with the api_key masked. A *apiclient.ServiceError
// keeps its type and code so callers can still match on it.
func RedactError(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *apiclient.ServiceError
	if errors.As(err, &svcErr) {
		return &apiclient.ServiceError{APIError: apiclient.APIError{
			Code:    svcErr.APIErrorCode(),
			Message: Redact(svcErr.APIErrorMessage()),
		}}
	}
	return errors.New(Redact(err.Error()))
}
