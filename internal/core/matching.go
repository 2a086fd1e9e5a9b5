package core

// MatchOptions loosens or tightens how an actual event is compared to an expected one.
type MatchOptions struct {
	// IgnoreExtraArgs accepts calls with trailing positional args or extra keywords.
	IgnoreExtraArgs bool
	// IsEntered, when set, must equal the actual entry's entered state.
	IsEntered *bool
}

// Matches is the single predicate shared by behavior resolution, verification and
// the warning checker. It never errors: a missing index or key is a non-match.
func Matches(actual Event, actualState EntryState, expected Event, opts MatchOptions) bool {
	if opts.IsEntered != nil && *opts.IsEntered != actualState.Entered {
		return false
	}

	act, actIsCall := actual.(CallEvent)
	exp, expIsCall := expected.(CallEvent)

	if !opts.IgnoreExtraArgs || !actIsCall || !expIsCall {
		return EventsEqual(actual, expected)
	}

	if len(exp.Args) > len(act.Args) {
		return false
	}

	return argsMatch(act.Args[:len(exp.Args)], exp.Args) && kwargsMatch(act.Kwargs, exp.Kwargs)
}

// EntryMatches compares an actual entry against a rehearsal using the rehearsal's
// own options. Entries for different mocks never match.
func EntryMatches(actual, rehearsal *EventEntry) bool {
	if actual.Mock != rehearsal.Mock {
		return false
	}

	return Matches(actual.Event, actual.State, rehearsal.Event, rehearsal.MatchOptions())
}
