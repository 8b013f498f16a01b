package outcome

import (
	"variantstore/api/models/constants"
)

const (
	Success constants.Outcome = iota
	// the store rejected the write (cluster pressure, timeouts, unreachable nodes)
	TransientWriteFailure
	// the write request itself was invalid (mapping conflicts, bad ids, bad payload)
	MalformedRequest
	// a caller listed for the variant had no matching record
	ReconciliationFailure
)

func IsFailure(o constants.Outcome) bool {
	return o != Success
}

func OutcomeToString(o constants.Outcome) string {
	switch o {
	case Success:
		return "SUCCESS"
	case TransientWriteFailure:
		return "TRANSIENT_WRITE_FAILURE"
	case MalformedRequest:
		return "MALFORMED_REQUEST"
	case ReconciliationFailure:
		return "RECONCILIATION_FAILURE"
	default:
		return "UNKNOWN"
	}
}
