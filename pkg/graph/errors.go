package graph

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	abstractions "github.com/microsoft/kiota-abstractions-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"
)

// Descriptor is the classified form of a failed Graph call. Reason is safe to
// show to any consumer of the run output; ErrorMessage is the raw text and
// belongs in debug logs only.
type Descriptor struct {
	HTTPStatus   int
	Reason       string
	ErrorMessage string
	Level        slog.Level
}

// Retryable reports whether the failure is worth retrying after a backoff.
func (d Descriptor) Retryable() bool {
	return d.HTTPStatus == 429
}

var (
	notFoundRe   = regexp.MustCompile(`(?i)\b404\b|not found`)
	forbiddenRe  = regexp.MustCompile(`(?i)\b403\b|insufficient privileges`)
	throttledRe  = regexp.MustCompile(`(?i)\b429\b|throttl`)
	badRequestRe = regexp.MustCompile(`(?i)\b400\b|bad request`)
)

// Classify turns any error from a Graph call into a Descriptor. It never
// panics and never returns an empty descriptor. 404 and 403 are collapsed into
// the same generic reason: telling a caller which of the two occurred would
// let them probe for identifiers that are hidden rather than absent.
// resourceType is a free-form label ("user", "group", ...) substituted into
// that generic message.
func Classify(err error, resourceType string) Descriptor {
	if resourceType == "" {
		resourceType = "resource"
	}

	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}

	status, detail := statusOf(err)
	if detail != "" {
		msg = detail
	}

	switch status {
	case 404, 403:
		return Descriptor{
			HTTPStatus:   status,
			Reason:       fmt.Sprintf("Operation failed. The %s could not be processed.", resourceType),
			ErrorMessage: msg,
			Level:        slog.LevelError,
		}
	case 429:
		return Descriptor{
			HTTPStatus:   429,
			Reason:       "Request was throttled by Microsoft Graph. Back off and retry the operation.",
			ErrorMessage: msg,
			Level:        slog.LevelWarn,
		}
	case 400:
		return Descriptor{
			HTTPStatus:   400,
			Reason:       fmt.Sprintf("Bad request: %s", msg),
			ErrorMessage: msg,
			Level:        slog.LevelError,
		}
	default:
		return Descriptor{
			HTTPStatus:   status,
			Reason:       fmt.Sprintf("Failed: %s", msg),
			ErrorMessage: msg,
			Level:        slog.LevelError,
		}
	}
}

// statusOf extracts an HTTP status code from the error chain: the SDK's
// ODataError first, then any kiota ApiError or azcore ResponseError, then a
// pattern match over the message text. First match wins.
func statusOf(err error) (int, string) {
	if err == nil {
		return 0, ""
	}

	var oerr *odataerrors.ODataError
	if errors.As(err, &oerr) {
		detail := oerr.Error()
		if main := oerr.GetErrorEscaped(); main != nil && main.GetMessage() != nil {
			detail = *main.GetMessage()
		}
		return oerr.ResponseStatusCode, detail
	}

	var aerr *abstractions.ApiError
	if errors.As(err, &aerr) {
		return aerr.ResponseStatusCode, aerr.Message
	}

	var rerr *azcore.ResponseError
	if errors.As(err, &rerr) {
		return rerr.StatusCode, ""
	}

	text := err.Error()
	switch {
	case notFoundRe.MatchString(text):
		return 404, ""
	case forbiddenRe.MatchString(text):
		return 403, ""
	case throttledRe.MatchString(text):
		return 429, ""
	case badRequestRe.MatchString(text):
		return 400, ""
	}
	return 0, ""
}
