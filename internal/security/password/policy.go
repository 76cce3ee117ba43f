package password

import "unicode/utf8"

// Policy applies to passwords set through the operator CLI. Verification
// never checks it.
type Policy struct {
	MinLength int
	MaxLength int
}

var DefaultPolicy = Policy{MinLength: 12, MaxLength: 128}

func (p Policy) Validate(s string) (ok bool, reasons []string) {
	n := utf8.RuneCountInString(s)
	if p.MinLength > 0 && n < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	if p.MaxLength > 0 && n > p.MaxLength {
		reasons = append(reasons, "too_long")
	}
	return len(reasons) == 0, reasons
}
