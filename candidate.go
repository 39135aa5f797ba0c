package topcodes

// Candidate is a pixel position flagged during the threshold sweep as a
// possible TopCode center. Candidates are produced append-only during a
// sweep and discarded once decoding has been attempted against them.
type Candidate struct {
	X, Y int
}
