package study

// FetchState tracks the collaborator fetch behind an AccessContext.
type FetchState int

const (
	FetchLoading FetchState = iota
	FetchLoaded
	FetchFailed
)

func (s FetchState) String() string {
	switch s {
	case FetchLoaded:
		return "loaded"
	case FetchFailed:
		return "failed"
	default:
		return "loading"
	}
}

// AccessStatus is the per-viewer, per-course answer of the collaborator.
type AccessStatus struct {
	IsEnrolled bool `json:"isEnrolled"`
	HasPaid    bool `json:"hasPaid"`
}

// AccessContext is the viewer snapshot used for gating. Enrollment and payment
// flags are meaningful only when State is FetchLoaded.
type AccessContext struct {
	State      FetchState
	IsSignedIn bool
	IsEnrolled bool
	HasPaid    bool
}

// LoadingAccess is the context of a viewer whose access status has not resolved yet.
func LoadingAccess(signedIn bool) AccessContext {
	return AccessContext{State: FetchLoading, IsSignedIn: signedIn}
}

// LoadedAccess builds a resolved context.
func LoadedAccess(signedIn bool, st AccessStatus) AccessContext {
	return AccessContext{
		State:      FetchLoaded,
		IsSignedIn: signedIn,
		IsEnrolled: st.IsEnrolled,
		HasPaid:    st.HasPaid,
	}
}

// Decision is the three-valued outcome of gating one module.
type Decision int

const (
	Denied Decision = iota
	// Provisional grants a free module while enrollment is still unknown.
	Provisional
	Granted
)

func (d Decision) String() string {
	switch d {
	case Granted:
		return "granted"
	case Provisional:
		return "provisional"
	default:
		return "denied"
	}
}

// Decide evaluates sign-in, enrollment and payment in that precedence.
// Until the access status is loaded only free modules are let through.
func Decide(m Module, ac AccessContext) Decision {
	if !ac.IsSignedIn {
		return Denied
	}
	if ac.State != FetchLoaded {
		if m.IsFree {
			return Provisional
		}
		return Denied
	}
	if !ac.IsEnrolled {
		return Denied
	}
	if m.IsFree || ac.HasPaid {
		return Granted
	}
	return Denied
}

// CanAccessModule reports whether the viewer may open the module now.
func CanAccessModule(m Module, ac AccessContext) bool {
	return Decide(m, ac) != Denied
}
