// Package verify wraps the external face-presence check behind a single
// capability interface so the attendance pipeline never couples to a
// particular provider SDK.
package verify

import "context"

// Verdict is the structured outcome of an identity verification attempt.
type Verdict struct {
	Verified     bool    `json:"verified"`
	Confidence   float64 `json:"confidence"`
	Message      string  `json:"message"`
	DetectedName *string `json:"detectedName,omitempty"`
}

// Verifier checks whether the claimed person is visible in the image.
type Verifier interface {
	Verify(ctx context.Context, image []byte, claimedName string) (Verdict, error)
}

// Unverified collapses any verifier failure into the zero-confidence
// verdict shape the classifier consumes. Callers use it so an outage
// degrades to ABSENT instead of aborting the request.
func Unverified(reason string) Verdict {
	return Verdict{Verified: false, Confidence: 0, Message: reason}
}
