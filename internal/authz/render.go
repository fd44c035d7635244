package authz

// The render gate mirrors the server gate for UI code: same policy and
// condition inputs, but the output is a presentation decision instead of
// an HTTP status. It is never a security boundary; every resource shown
// or hidden here is enforced again server-side by Gate.

// IdentityState describes how far identity resolution has progressed on
// the client.
type IdentityState int

const (
	// IdentityPending means resolution has not settled. No condition is
	// evaluated in this state.
	IdentityPending IdentityState = iota
	// IdentityResolved means a user was loaded.
	IdentityResolved
	// IdentityAbsent means resolution settled with no user.
	IdentityAbsent
)

// RenderState is the three-way outcome for the UI.
type RenderState int

const (
	// RenderLoading shows a progress indicator.
	RenderLoading RenderState = iota
	// RenderContent shows the protected children.
	RenderContent
	// RenderFallback shows the fallback, or nothing.
	RenderFallback
)

// RenderInput collects everything a UI region needs gated on.
type RenderInput struct {
	Identity IdentityState
	User     *User
	Policy   Policy

	// Extra conditions AND-ed with the policy via the composer. Panics
	// inside them deny, never crash the UI loop.
	Conditions []Condition

	// ShowError requests that the denial reason be surfaced inline
	// instead of silently rendering the fallback.
	ShowError bool
}

// RenderDecision tells the UI adapter what to draw.
type RenderDecision struct {
	State     RenderState
	Reason    string
	ShowError bool
}

// Render computes the render decision. It is a pure function of its
// inputs: adapters should re-invoke it only when the identity state or
// the condition inputs change, not on every frame.
func (r *Resolver) Render(in RenderInput) RenderDecision {
	if in.Identity == IdentityPending {
		return RenderDecision{State: RenderLoading}
	}

	if in.Identity == IdentityAbsent {
		return RenderDecision{
			State:     RenderFallback,
			Reason:    "authentication required",
			ShowError: in.ShowError,
		}
	}

	decision := r.Evaluate(in.User, in.Policy)
	if !decision.Allowed {
		return RenderDecision{
			State:     RenderFallback,
			Reason:    decision.Reason,
			ShowError: in.ShowError,
		}
	}

	if len(in.Conditions) > 0 {
		if !r.composerOrDefault().All(in.Conditions...) {
			return RenderDecision{
				State:     RenderFallback,
				Reason:    "display condition not met",
				ShowError: in.ShowError,
			}
		}
	}

	return RenderDecision{State: RenderContent}
}
