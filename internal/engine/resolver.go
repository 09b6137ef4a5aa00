package engine

// Resolve decides whether a set of candidate events can be acted upon
// without guessing, applying the cardinality decision table:
//
//	cardinality        | candidates | outcome
//	-------------------+------------+--------------------
//	any                | 0          | NoMatches
//	singular           | 1          | Unambiguous
//	singular           | >1         | NeedsClarification
//	plural/unspecified | >=1        | Unambiguous (all)
//
// A singular request ("delete the gym session") must never silently mutate
// more than one event; a plural request ("clear all Monday meetings") acts
// on every match. Unspecified cardinality is treated as plural to avoid
// blocking on ambiguity the user did not signal.
//
// Candidates with identical summaries and start times are both presented;
// the engine never picks a default among them.
func Resolve(cardinality Cardinality, candidates []Candidate) Resolution {
	switch {
	case len(candidates) == 0:
		return Resolution{State: ResolutionNoMatches}
	case cardinality == CardinalitySingular && len(candidates) > 1:
		return Resolution{State: ResolutionNeedsClarification, Candidates: candidates}
	default:
		return Resolution{State: ResolutionUnambiguous, Candidates: candidates}
	}
}
