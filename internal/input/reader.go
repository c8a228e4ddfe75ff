package input

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/sybilglass/internal/model"
)

// ErrEmptyInput indicates a source that yielded no tokens at all.
// An empty list is almost always a pipeline mistake (wrong path, wrong
// column), so it is surfaced instead of producing an empty report silently.
var ErrEmptyInput = errors.New("input contains no address tokens")

// addressColumn is the CSV header name selecting the address column.
const addressColumn = "address"

// Reader loads raw address entries from configured sources.
type Reader struct {
	logger *slog.Logger

	// stdin is swapped in tests.
	stdin io.Reader
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for per-source progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) { r.logger = logger }
}

// WithStdin overrides the standard input stream.
func WithStdin(stdin io.Reader) Option {
	return func(r *Reader) { r.stdin = stdin }
}

// NewReader creates a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		logger: slog.Default(),
		stdin:  os.Stdin,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadAll reads every source in order and concatenates the entries.
// Source order does not affect analysis results downstream, but keeping
// it preserves line provenance for rejection messages.
func (r *Reader) ReadAll(sources []string) ([]model.RawEntry, error) {
	var entries []model.RawEntry
	for _, src := range sources {
		got, err := r.Read(src)
		if err != nil {
			return nil, err
		}
		entries = append(entries, got...)
	}
	return entries, nil
}

// Read reads a single source. The path "-" reads standard input.
func (r *Reader) Read(source string) ([]model.RawEntry, error) {
	if source == "-" {
		return r.readStdin()
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	format := detectByExtension(source)
	entries, err := r.read(f, source, format)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("input read",
		slog.String("source", source),
		slog.String("format", format.String()),
		slog.Int("entries", len(entries)))
	return entries, nil
}

// readStdin buffers standard input and sniffs its format.
// Stdin must be buffered anyway to sniff, and address lists are small
// relative to memory, so slurping is fine.
func (r *Reader) readStdin() ([]model.RawEntry, error) {
	data, err := io.ReadAll(r.stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}

	format := sniffFormat(data)
	entries, err := r.read(bytes.NewReader(data), "-", format)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("input read",
		slog.String("source", "-"),
		slog.String("format", format.String()),
		slog.Int("entries", len(entries)))
	return entries, nil
}

func (r *Reader) read(src io.Reader, source string, format model.InputFormat) ([]model.RawEntry, error) {
	var entries []model.RawEntry
	var err error
	switch format {
	case model.FormatCSV:
		entries, err = readCSV(src, source)
	case model.FormatJSON:
		entries, err = readJSON(src, source)
	default:
		entries, err = readText(src, source)
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, source)
	}
	return entries, nil
}

// detectByExtension maps a file extension to an input format.
func detectByExtension(path string) model.InputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return model.FormatCSV
	case ".json":
		return model.FormatJSON
	default:
		return model.FormatText
	}
}

// sniffFormat guesses the format of piped data from its first bytes.
// A leading '[' or '{' means JSON; a comma on the first line means CSV;
// anything else is a plain text list.
func sniffFormat(data []byte) model.InputFormat {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return model.FormatJSON
	}
	firstLine, _, _ := bytes.Cut(trimmed, []byte("\n"))
	if bytes.ContainsRune(firstLine, ',') {
		return model.FormatCSV
	}
	return model.FormatText
}

// readText reads one token per line. Blank lines and lines starting with
// '#' are skipped; trailing same-line commentary is handled later by the
// normalizer, which keeps the rejection bookkeeping in one place.
func readText(src io.Reader, source string) ([]model.RawEntry, error) {
	var entries []model.RawEntry
	scanner := bufio.NewScanner(src)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		entries = append(entries, model.RawEntry{
			Token:  text,
			Line:   line,
			Source: source,
			Format: model.FormatText,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return entries, nil
}

// readCSV reads the address column of a CSV file.
// When the first row names an "address" column (case-insensitive) that
// column is used and the header row skipped; otherwise every row's first
// field is taken, including the first row.
func readCSV(src io.Reader, source string) ([]model.RawEntry, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var entries []model.RawEntry
	column := 0
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		row++

		if row == 1 {
			if col, ok := headerColumn(record); ok {
				column = col
				continue
			}
		}
		if column >= len(record) {
			continue
		}
		token := strings.TrimSpace(record[column])
		if token == "" {
			continue
		}
		entries = append(entries, model.RawEntry{
			Token:  token,
			Line:   row,
			Source: source,
			Format: model.FormatCSV,
		})
	}
	return entries, nil
}

// headerColumn finds the "address" column in a candidate header row.
func headerColumn(record []string) (int, bool) {
	for i, field := range record {
		if strings.EqualFold(strings.TrimSpace(field), addressColumn) {
			return i, true
		}
	}
	return 0, false
}

// jsonObjectEntry is the object form of a JSON list element.
type jsonObjectEntry struct {
	Address string `json:"address"`
}

// readJSON reads an array of strings or of objects with an "address" field.
// Element positions stand in for line numbers in provenance records.
func readJSON(src io.Reader, source string) ([]model.RawEntry, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(src).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: expected an array: %w", err)
	}

	entries := make([]model.RawEntry, 0, len(raw))
	for i, elem := range raw {
		var token string
		if err := json.Unmarshal(elem, &token); err != nil {
			var obj jsonObjectEntry
			if err := json.Unmarshal(elem, &obj); err != nil {
				return nil, fmt.Errorf("failed to parse JSON element %d: expected a string or an object with an address field: %w", i+1, err)
			}
			token = obj.Address
		}
		entries = append(entries, model.RawEntry{
			Token:  token,
			Line:   i + 1,
			Source: source,
			Format: model.FormatJSON,
		})
	}
	return entries, nil
}
