package qual

// OpClass identifies the kind of value transfer being checked.
type OpClass uint8

const (
	OpAssign OpClass = iota
	OpInit
	OpArg
	OpReturn
	OpPointerAlias
	OpCast
	// OpCondition is stricter than any destination: only PRECISE is accepted.
	OpCondition
)

var opNames = [...]string{
	OpAssign:       "assignment",
	OpInit:         "initialization",
	OpArg:          "call argument",
	OpReturn:       "return",
	OpPointerAlias: "pointer alias",
	OpCast:         "cast",
	OpCondition:    "condition",
}

func (o OpClass) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Violation is the verdict of a single flow check.
type Violation uint8

const (
	NoViolation Violation = iota
	// PrecisionFlow: APPROX value into a PRECISE destination.
	PrecisionFlow
	// PointeeMismatch: pointee qualifiers differ (either direction).
	PointeeMismatch
	// ApproxCondition: APPROX controlling expression.
	ApproxCondition
)

func (v Violation) String() string {
	switch v {
	case NoViolation:
		return "ok"
	case PrecisionFlow:
		return "precision flow violation"
	case PointeeMismatch:
		return "pointer qualifier mismatch"
	case ApproxCondition:
		return "approximate condition"
	default:
		return "unknown violation"
	}
}
