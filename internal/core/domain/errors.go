package domain

// Signal is a named business-rule failure. Signals are produced by the
// service layer and translated to transport errors at the handler boundary.
type Signal string

const (
	SignalUserNotFound             Signal = "UserNotFound"
	SignalUserAlreadyExists        Signal = "UserAlreadyExists"
	SignalUserSearchInvalidFilters Signal = "UserSearchInvalidFilters"
	SignalUserUpdateRejected       Signal = "UserUpdateRejected"

	SignalMediaNotFound             Signal = "MediaNotFound"
	SignalMediaAlreadyExists        Signal = "MediaAlreadyExists"
	SignalMediaSearchInvalidFilters Signal = "MediaSearchInvalidFilters"
	SignalMediaUpdateRejected       Signal = "MediaUpdateRejected"

	SignalAuthUnauthorized Signal = "AuthUnauthorized"
)

var knownSignals = map[Signal]struct{}{
	SignalUserNotFound:              {},
	SignalUserAlreadyExists:         {},
	SignalUserSearchInvalidFilters:  {},
	SignalUserUpdateRejected:        {},
	SignalMediaNotFound:             {},
	SignalMediaAlreadyExists:        {},
	SignalMediaSearchInvalidFilters: {},
	SignalMediaUpdateRejected:       {},
	SignalAuthUnauthorized:          {},
}

// Error implements the error interface so signals can be returned and
// wrapped like sentinel errors.
func (s Signal) Error() string { return string(s) }

// Known reports whether s belongs to the taxonomy above.
func (s Signal) Known() bool {
	_, ok := knownSignals[s]
	return ok
}
