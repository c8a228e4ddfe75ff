package normalize

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/nao1215/sybilglass/internal/model"
)

// Normalizer parses raw entries into the canonical, deduplicated address
// set. It is configured once per run and carries no state between calls.
type Normalizer struct {
	// hexLength is the required payload length in hex digits.
	hexLength int

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets a custom logger for the normalizer.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// New creates a Normalizer requiring payloads of hexLength digits.
func New(hexLength int, opts ...Option) *Normalizer {
	n := &Normalizer{
		hexLength: hexLength,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Normalize parses every entry and returns the deduplicated address set
// plus the rejection list.
//
// Addresses are sorted by value and assigned contiguous arena indexes
// before returning. Sorting here, once, is what makes every downstream
// stage independent of the input ordering: union-find, pair scoring, and
// report assembly all operate on indexes into this sorted arena.
func (n *Normalizer) Normalize(entries []model.RawEntry) ([]*model.Address, []model.Rejection) {
	byValue := make(map[string]*model.Address)
	rejections := make([]model.Rejection, 0)

	for _, entry := range entries {
		payload, hadPrefix, reason, ok := n.parse(entry.Token)
		if !ok {
			rejections = append(rejections, model.Rejection{Entry: entry, Reason: reason})
			continue
		}

		value := strings.ToLower(payload)
		style := Style(payload)
		checksummed := style == model.ChecksumMixed && VerifyEIP55(payload)

		if addr, seen := byValue[value]; seen {
			addr.Occurrences++
			addr.Lines = append(addr.Lines, entry.Line)
			addr.HadPrefix = addr.HadPrefix || hadPrefix
			// Style and checksum validity must not depend on which casing of
			// a duplicated value arrives first: keep the strongest evidence
			// across occurrences. ChecksumStyle constants order lower <
			// upper < mixed by increasing intent.
			if style > addr.Style {
				addr.Style = style
			}
			addr.ChecksumValid = addr.ChecksumValid || checksummed
			continue
		}

		byValue[value] = &model.Address{
			Value:         value,
			HadPrefix:     hadPrefix,
			Style:         style,
			ChecksumValid: checksummed,
			Occurrences:   1,
			Lines:         []int{entry.Line},
		}
	}

	addresses := make([]*model.Address, 0, len(byValue))
	for _, addr := range byValue {
		addresses = append(addresses, addr)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return addresses[i].Value < addresses[j].Value
	})
	for i, addr := range addresses {
		addr.Index = i
	}

	n.logger.Debug("normalization complete",
		"entries", len(entries),
		"unique", len(addresses),
		"rejected", len(rejections),
	)

	return addresses, rejections
}

// parse extracts and validates the hex payload of one token.
// It returns the payload with original casing, whether a "0x" prefix was
// present, and on failure the rejection reason.
func (n *Normalizer) parse(token string) (payload string, hadPrefix bool, reason model.RejectReason, ok bool) {
	tok := strings.TrimSpace(token)

	// Trailing commentary: anything after a '#' or the first whitespace
	// inside the token belongs to the list author, not the address.
	if idx := strings.IndexByte(tok, '#'); idx >= 0 {
		tok = strings.TrimSpace(tok[:idx])
	}
	if fields := strings.Fields(tok); len(fields) > 0 {
		tok = fields[0]
	} else {
		tok = ""
	}

	if tok == "" {
		return "", false, model.RejectEmpty, false
	}

	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		hadPrefix = true
		tok = tok[2:]
	}

	// Charset before length: a token like "not_an_address" is reported as
	// NON_HEX_CHARACTER, which is more useful than its incidental length.
	for _, c := range tok {
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		isUpperHex := c >= 'A' && c <= 'F'
		if !isDigit && !isLowerHex && !isUpperHex {
			return "", hadPrefix, model.RejectNonHex, false
		}
	}

	if len(tok) != n.hexLength {
		return "", hadPrefix, model.RejectWrongLength, false
	}

	return tok, hadPrefix, 0, true
}
