package ports

import (
	"context"
	"errors"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
)

// Classifier errors. Both are distinguishable from a benign verdict; the gate
// decides fail-open vs fail-closed when it sees them.
var (
	// ErrClassifierUnavailable covers network failures, timeouts and
	// non-2xx responses from the oracle.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrVerdictMalformed means the oracle answered but the body could not
	// be interpreted as a verdict.
	ErrVerdictMalformed = errors.New("malformed classifier verdict")
)

// Classifier scores a feature vector against the external oracle. The call
// blocks for up to the configured timeout; no retries happen at this layer.
type Classifier interface {
	Classify(ctx context.Context, features domain.FeatureVector) (*domain.Verdict, error)
}
