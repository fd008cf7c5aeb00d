package attendance

import (
	"context"
	"time"

	"campusmark/internal/geo"
	"campusmark/internal/roster"
	"campusmark/internal/verify"
)

// Ledger is the persistence collaborator: one record per
// (student, course, date), replaced atomically on conflict.
type Ledger interface {
	Upsert(ctx context.Context, rec Record) (Record, error)
}

// Pipeline runs the fixed sequence of checks for one capture event.
// Every signal is computed and returned even when an earlier one is
// unfavorable, so the UI can explain why attendance was not counted.
type Pipeline struct {
	verifier        verify.Verifier
	ledger          Ledger
	classifier      Classifier
	geofenceRadiusM float64
	verifyTimeout   time.Duration
	now             func() time.Time
}

// NewPipeline wires the pipeline's collaborators explicitly; nothing is
// constructed lazily at call time.
func NewPipeline(verifier verify.Verifier, ledger Ledger, classifier Classifier, geofenceRadiusM float64, verifyTimeout time.Duration) *Pipeline {
	if geofenceRadiusM <= 0 {
		geofenceRadiusM = 50
	}
	if verifyTimeout <= 0 {
		verifyTimeout = 10 * time.Second
	}
	return &Pipeline{
		verifier:        verifier,
		ledger:          ledger,
		classifier:      classifier,
		geofenceRadiusM: geofenceRadiusM,
		verifyTimeout:   verifyTimeout,
		now:             time.Now,
	}
}

// Decide runs verification, geofencing, and classification, then
// upserts a record iff the verdict is verified. Verifier failures
// degrade to an unverified verdict and never abort the request; only
// ledger failures surface as errors.
func (p *Pipeline) Decide(ctx context.Context, evt CaptureEvent, course roster.Course) (Outcome, error) {
	vctx, cancel := context.WithTimeout(ctx, p.verifyTimeout)
	verdict, err := p.verifier.Verify(vctx, evt.Image, evt.ClaimedName)
	cancel()
	if err != nil {
		verdict = verify.Unverified("verification unavailable: " + err.Error())
		verifierFailures.Inc()
	}

	geoOK := geo.Evaluate(evt.Coordinate, course.Coordinate, p.geofenceRadiusM)

	observedAt := evt.ObservedAt
	if observedAt.IsZero() {
		observedAt = p.now()
	}
	status := p.classifier.Classify(verdict, course.StartTime, observedAt)
	decisionsTotal.WithLabelValues(string(status)).Inc()

	out := Outcome{
		Verification:        verdict,
		GeolocationVerified: geoOK,
		Status:              status,
	}

	// An unverified attempt leaves no trace; the outcome above is still
	// returned so the caller can show why nothing was counted.
	if !verdict.Verified {
		return out, nil
	}

	confidence := verdict.Confidence
	rec := Record{
		StudentID:           evt.StudentID,
		CourseID:            evt.CourseID,
		Date:                DateKey(observedAt),
		Timestamp:           observedAt,
		Status:              status,
		Method:              MethodAIFace,
		GeolocationVerified: geoOK,
		ConfidenceScore:     &confidence,
	}
	stored, err := p.ledger.Upsert(ctx, rec)
	if err != nil {
		return Outcome{}, err
	}
	out.Record = &stored
	return out, nil
}
