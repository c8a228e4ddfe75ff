package model

// InputFormat identifies the file format an input token was read from.
type InputFormat int

const (
	// FormatUnknown indicates an undetected input format.
	FormatUnknown InputFormat = iota
	// FormatText is a plain text list, one token per line.
	FormatText
	// FormatCSV is a CSV file with an "address" column or a first-column heuristic.
	FormatCSV
	// FormatJSON is a JSON array of strings or objects with an "address" field.
	// Data piped through stdin is sniffed and tagged with the detected format.
	FormatJSON
)

// String returns the string representation of the InputFormat.
func (f InputFormat) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// RawEntry is a single input record before normalization.
// It preserves the original token and its provenance so that rejections
// and duplicate bookkeeping can point back at the source list.
// RawEntry values are immutable once read and are discarded after
// normalization.
type RawEntry struct {
	// Token is the original string exactly as it appeared in the input,
	// including any "0x" prefix and mixed casing.
	Token string `json:"token"`

	// Line is the 1-based line (or row) number in the source file.
	Line int `json:"line"`

	// Source is the file path or "-" for stdin.
	Source string `json:"source,omitempty"`

	// Format is the detected format of the source.
	Format InputFormat `json:"-"`
}

// ChecksumStyle classifies how the hex payload of an address was cased
// in the input. Mixed casing suggests intentional EIP-55 checksum usage;
// all-lower or all-upper is typical of script output.
type ChecksumStyle int

const (
	// ChecksumLower means the payload was entirely lowercase.
	ChecksumLower ChecksumStyle = iota
	// ChecksumUpper means the payload was entirely uppercase.
	ChecksumUpper
	// ChecksumMixed means the payload used mixed casing (EIP-55-like).
	ChecksumMixed
)

// String returns the string representation of the ChecksumStyle.
func (s ChecksumStyle) String() string {
	switch s {
	case ChecksumLower:
		return "lower"
	case ChecksumUpper:
		return "upper"
	case ChecksumMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so the style serializes
// as its name in JSON output.
func (s ChecksumStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Address is a canonical, deduplicated EVM address.
//
// The Value is always exactly the configured hex length (40 for EVM),
// lowercase, and matches ^[0-9a-f]*$. Case information from the input is
// not lost: the checksum style and EIP-55 verification result are recorded
// as features.
//
// Design decision: Each Address carries a stable arena Index assigned at
// normalization time. Downstream stages (union-find, pair scoring) address
// entries by index rather than by pointer, which avoids aliasing concerns
// and keeps the pipeline order-independent: indexes are assigned after
// sorting the deduplicated set by value.
type Address struct {
	// Value is the canonical lowercase hex payload without the "0x" prefix.
	Value string `json:"value"`

	// Index is the stable arena index assigned at normalization time.
	// Indexes are contiguous and ordered by Value.
	Index int `json:"-"`

	// HadPrefix is true if at least one originating token carried "0x".
	HadPrefix bool `json:"had_prefix"`

	// Style classifies the strongest casing evidence across all
	// occurrences of this value: mixed beats upper beats lower, so a
	// duplicated address reports the same style in any input order.
	Style ChecksumStyle `json:"checksum_style"`

	// ChecksumValid is true if any mixed-case occurrence matched the
	// EIP-55 checksum. Always false for all-lower and all-upper inputs,
	// where no checksum claim is being made.
	ChecksumValid bool `json:"checksum_valid"`

	// Occurrences counts how many input entries normalized to this value.
	// Duplicates are evidence of list padding and are never silently dropped.
	Occurrences int `json:"occurrences"`

	// Lines lists the source line numbers of every occurrence, in input order.
	Lines []int `json:"lines,omitempty"`
}

// Hex returns the address rendered with the conventional "0x" prefix.
func (a *Address) Hex() string {
	return "0x" + a.Value
}
