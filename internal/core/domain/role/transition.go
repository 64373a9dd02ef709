package role

// Reasons returned by CanTransition, in rule order.
const (
	ReasonUnverifiedTarget  = "cannot assign unverified roles directly"
	ReasonInsufficientPower = "insufficient permissions to modify this role"
	ReasonHighestProtected  = "only the highest role may modify the highest role"
)

// TransitionResult is the outcome of a role change check.
type TransitionResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func allow() TransitionResult             { return TransitionResult{Allowed: true} }
func deny(reason string) TransitionResult { return TransitionResult{Reason: reason} }

// isSystemAssigned reports whether r is one of the two lowest roles, which only the
// system assigns (sign-up and email verification).
func isSystemAssigned(r Role) bool {
	return r.normalize() <= Lowest()+1
}

// CanTransition decides whether a principal holding acting may move a target from
// current to next. Rules are evaluated in order and the first failure is returned.
func CanTransition(current, next, acting Role) TransitionResult {
	current, next, acting = current.normalize(), next.normalize(), acting.normalize()

	if isSystemAssigned(next) {
		return deny(ReasonUnverifiedTarget)
	}
	if !IsHigher(acting, current) || !IsHigher(acting, next) {
		return deny(ReasonInsufficientPower)
	}
	if current == Highest() && acting != Highest() {
		return deny(ReasonHighestProtected)
	}
	return allow()
}

// CanModify reports whether acting may touch an account currently holding target at all.
// The highest role may modify anyone, including peers.
func CanModify(acting, target Role) bool {
	acting = acting.normalize()
	return IsHigher(acting, target.normalize()) || acting == Highest()
}

// AssignableRoles lists every role acting could grant as a new role, lowest first.
func AssignableRoles(acting Role) []Role {
	acting = acting.normalize()
	out := []Role{}
	for _, r := range All() {
		if isSystemAssigned(r) {
			continue
		}
		if IsHigher(acting, r) {
			out = append(out, r)
		}
	}
	return out
}
