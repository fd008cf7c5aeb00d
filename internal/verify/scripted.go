package verify

import "context"

// Scripted returns canned verdicts, for tests and for running the API
// without model credentials.
type Scripted struct {
	Verdict Verdict
	Err     error

	// Calls records the claimed names seen, in order.
	Calls []string
}

// Verify replays the scripted verdict or error.
func (s *Scripted) Verify(_ context.Context, _ []byte, claimedName string) (Verdict, error) {
	s.Calls = append(s.Calls, claimedName)
	if s.Err != nil {
		return Verdict{}, s.Err
	}
	return s.Verdict, nil
}
