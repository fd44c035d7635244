package authz

import "log/slog"

// Condition is a boolean predicate closed over whatever context it needs.
// Conditions must be pure with respect to the decision: evaluating one
// must not mutate state. A panicking condition is recovered at the point
// of invocation and treated as false; it never reaches the caller.
type Condition interface {
	Evaluate() bool
}

// Operator combines a primary condition with an optional list of extra
// conditions.
type Operator string

const (
	// OpAnd requires every condition to hold. It is the default.
	OpAnd Operator = "AND"
	// OpOr requires at least one condition to hold.
	OpOr Operator = "OR"
	// OpNot negates the primary condition only; extra conditions are
	// ignored. Because a panicking condition evaluates to false, NOT over
	// a panicking condition yields true. Callers that need deny-on-error
	// under negation must wrap the condition themselves.
	OpNot Operator = "NOT"
)

// Composer evaluates condition trees. The zero value is usable; attach a
// logger to surface recovered panics when debugging authorization rules.
type Composer struct {
	logger *slog.Logger
	debug  bool
}

// NewComposer constructs a Composer. Logger may be nil.
func NewComposer(logger *slog.Logger, debug bool) *Composer {
	return &Composer{logger: logger, debug: debug}
}

// Evaluate combines the primary condition with rest under op. An empty
// operator means AND. A nil primary condition counts as false.
func (c *Composer) Evaluate(op Operator, primary Condition, rest ...Condition) bool {
	switch op {
	case OpNot:
		return !c.eval(primary)
	case OpOr:
		if c.eval(primary) {
			return true
		}
		for _, cond := range rest {
			if c.eval(cond) {
				return true
			}
		}
		return false
	case OpAnd, "":
		if !c.eval(primary) {
			return false
		}
		for _, cond := range rest {
			if !c.eval(cond) {
				return false
			}
		}
		return true
	default:
		if c.debug && c.logger != nil {
			c.logger.Warn("authz: unknown condition operator", slog.String("operator", string(op)))
		}
		return false
	}
}

// All evaluates conditions under AND.
func (c *Composer) All(conds ...Condition) bool {
	if len(conds) == 0 {
		return true
	}
	return c.Evaluate(OpAnd, conds[0], conds[1:]...)
}

// Any evaluates conditions under OR.
func (c *Composer) Any(conds ...Condition) bool {
	if len(conds) == 0 {
		return false
	}
	return c.Evaluate(OpOr, conds[0], conds[1:]...)
}

// eval runs a single condition, downgrading panics to false.
func (c *Composer) eval(cond Condition) (result bool) {
	if cond == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			result = false
			if c.debug && c.logger != nil {
				c.logger.Warn("authz: condition panicked, treating as false", slog.Any("panic", r))
			}
		}
	}()
	return cond.Evaluate()
}

// safeEval is the package-level variant for predicates evaluated
// outside any composer (Custom conditions).
func safeEval(fn func() bool) (result bool) {
	if fn == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			result = false
		}
	}()
	return fn()
}
