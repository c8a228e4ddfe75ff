package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// addressKeys contains attribute keys whose values are always treated as
// addresses, even when the value itself is too mangled to match the pattern.
var addressKeys = map[string]bool{
	"address": true,
	"addr":    true,
	"a":       true,
	"b":       true,
	"value":   true,
	"member":  true,
}

// addressPattern matches a bare or 0x-prefixed hex payload of plausible
// address length (32 hex digits or more covers every supported hex_length
// while leaving short hashes and offsets readable).
var addressPattern = regexp.MustCompile(`^(0x|0X)?[0-9a-fA-F]{32,}$`)

// maskKeep is the number of hex digits kept at each end of a masked value.
const maskKeep = 4

// MaskHandler wraps an slog.Handler to abbreviate address values.
// It intercepts log records and shortens attribute values that match
// address key names or the address value pattern before passing them to
// the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites log full values and stay oblivious to the masking policy
type MaskHandler struct {
	// handler is the underlying slog handler that receives masked records.
	handler slog.Handler
}

// NewMaskHandler creates a new MaskHandler wrapping the given handler.
// If handler is nil, the returned MaskHandler uses slog.Default().Handler().
func NewMaskHandler(handler slog.Handler) *MaskHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &MaskHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *MaskHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it to the underlying
// handler.
func (h *MaskHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})

	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are masked before being added.
func (h *MaskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &MaskHandler{handler: h.handler.WithAttrs(maskedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *MaskHandler) WithGroup(name string) slog.Handler {
	return &MaskHandler{handler: h.handler.WithGroup(name)}
}

// maskAttr masks a single attribute, recursively handling groups.
func (h *MaskHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	value := a.Value.String()
	keyLower := strings.ToLower(a.Key)
	if addressKeys[keyLower] || addressPattern.MatchString(value) {
		return slog.String(a.Key, Abbreviate(value))
	}

	return a
}

// Abbreviate shortens an address-like value to its first and last four hex
// digits, preserving any "0x" prefix. Values too short to lose information
// are returned unchanged.
func Abbreviate(value string) string {
	prefix := ""
	payload := value
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		prefix = value[:2]
		payload = value[2:]
	}
	if len(payload) <= 2*maskKeep+1 {
		return value
	}
	return prefix + payload[:maskKeep] + "…" + payload[len(payload)-maskKeep:]
}

// NewLogger creates a new slog.Logger writing text records to w.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//   - mask: If true, address values in attributes are abbreviated
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewLogger(w io.Writer, verbose, mask bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if mask {
		handler = NewMaskHandler(handler)
	}

	return slog.New(handler)
}
