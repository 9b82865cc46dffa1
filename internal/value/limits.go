package value

// Limits describes the tunable §4.1 resource bounds: how large a text or
// bytes value may canonicalize to, how long a field name may be, and how
// many fields one ingest call may carry. internal/config lets an operator
// tighten these (never loosen them past the built-in ceilings declared as
// constants in canonical.go).
type Limits struct {
	MaxTextBytes       int64
	MaxBytesBytes      int64
	MaxFieldNameBytes  int64
	MaxFieldsPerIngest int64
}

// effective holds the currently active bounds, seeded from the built-in
// ceilings. SetLimits is the only way to change them.
var effective = Limits{
	MaxTextBytes:       MaxTextBytes,
	MaxBytesBytes:      MaxBytesBytes,
	MaxFieldNameBytes:  MaxFieldNameBytes,
	MaxFieldsPerIngest: MaxFieldsPerIngest,
}

// SetLimits overrides the effective resource bounds. The caller (felixctl's
// root command, after internal/config has validated that no field exceeds
// its built-in ceiling) is responsible for tightening-only; a zero field
// here leaves that bound unchanged.
func SetLimits(l Limits) {
	if l.MaxTextBytes > 0 {
		effective.MaxTextBytes = l.MaxTextBytes
	}
	if l.MaxBytesBytes > 0 {
		effective.MaxBytesBytes = l.MaxBytesBytes
	}
	if l.MaxFieldNameBytes > 0 {
		effective.MaxFieldNameBytes = l.MaxFieldNameBytes
	}
	if l.MaxFieldsPerIngest > 0 {
		effective.MaxFieldsPerIngest = l.MaxFieldsPerIngest
	}
}

// EffectiveLimits returns the currently active resource bounds.
func EffectiveLimits() Limits {
	return effective
}
