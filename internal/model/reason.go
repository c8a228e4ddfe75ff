package model

// RejectReason codes why an input entry failed normalization.
// Rejections are recoverable by design: the entry is recorded and the run
// continues with the remaining valid entries.
type RejectReason int

const (
	// RejectEmpty means the token was empty after trimming.
	RejectEmpty RejectReason = iota
	// RejectWrongLength means the hex payload was not the configured length.
	RejectWrongLength
	// RejectNonHex means the payload contained a non-hexadecimal character.
	RejectNonHex
)

// String returns the string representation of the RejectReason.
func (r RejectReason) String() string {
	switch r {
	case RejectEmpty:
		return "EMPTY"
	case RejectWrongLength:
		return "WRONG_LENGTH"
	case RejectNonHex:
		return "NON_HEX_CHARACTER"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler so reasons serialize
// as their code names in JSON output.
func (r RejectReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Rejection records a single input entry that failed normalization.
type Rejection struct {
	// Entry is the original input record.
	Entry RawEntry `json:"entry"`

	// Reason is the rejection code.
	Reason RejectReason `json:"reason"`
}
