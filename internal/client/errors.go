package client

import (
	"errors"
	"net/http"

	"github.com/aws/smithy-go"

	"github.com/Nao-Mk2/aws-log-lister/internal/model"
)

var throttleCodes = map[string]bool{
	"ThrottlingException":      true,
	"Throttling":               true,
	"TooManyRequestsException": true,
	"RequestLimitExceeded":     true,
}

// notThrottleCodes are unmodeled 400 responses that will not go away on
// retry: credential and signing failures.
var notThrottleCodes = map[string]bool{
	"ExpiredTokenException":       true,
	"UnrecognizedClientException": true,
	"AccessDeniedException":       true,
	"InvalidSignatureException":   true,
	"IncompleteSignature":         true,
	"MissingAuthenticationToken":  true,
	"InvalidClientTokenId":        true,
}

// Classify wraps an SDK error into a FetchError. Throttling error codes,
// and 400 responses that carry no modeled CloudWatch Logs exception, are
// rate limited, except credential and signing failures; everything else
// is Other.
func Classify(op string, err error) *model.FetchError {
	kind := model.Other
	if isThrottle(err) {
		kind = model.RateLimited
	}
	return &model.FetchError{Kind: kind, Op: op, Err: err}
}

func isThrottle(err error) bool {
	var apiErr smithy.APIError
	hasAPIErr := errors.As(err, &apiErr)
	if hasAPIErr && throttleCodes[apiErr.ErrorCode()] {
		return true
	}
	if hasAPIErr && notThrottleCodes[apiErr.ErrorCode()] {
		return false
	}
	var status interface{ HTTPStatusCode() int }
	if !errors.As(err, &status) || status.HTTPStatusCode() != http.StatusBadRequest {
		return false
	}
	if !hasAPIErr {
		return true
	}
	var generic *smithy.GenericAPIError
	return errors.As(err, &generic)
}
