package persist

import (
	"net/http"

	"github.com/pkg/errors"

	"variantstore/api/models/constants"
	"variantstore/api/models/constants/outcome"
	"variantstore/api/repositories/elasticsearch"
)

// Classify maps a write result onto its outcome. Requests the store refused as
// invalid are malformed; everything else the store or transport failed on
// (overload, timeouts, unreachable nodes) is transient.
func Classify(err error) constants.Outcome {
	if err == nil {
		return outcome.Success
	}

	var we *elasticsearch.WriteError
	if errors.As(err, &we) {
		switch {
		case we.Status == http.StatusRequestTimeout, we.Status == http.StatusTooManyRequests:
			return outcome.TransientWriteFailure
		case we.Status >= 400 && we.Status < 500:
			return outcome.MalformedRequest
		}
	}
	return outcome.TransientWriteFailure
}
