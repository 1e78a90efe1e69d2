package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Names accepted by Write (and by the --format flag that feeds it).
const (
	JSON = "json"
	EDN  = "edn"
)

// Write encodes v to w in the named format, one value per line. An empty
// name means JSON; names are matched case-insensitively so env-provided
// values like "EDN" work.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON:
		return writeJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
