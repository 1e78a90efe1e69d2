package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes an EDN rendering of v, covering the subset our CLI
// payloads need: maps, vectors, strings, numbers, booleans, nil.
// Structs are routed through JSON first so json tags drive field names.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}

	var sb strings.Builder
	encodeEDN(&sb, x, 0, pretty)
	sb.WriteByte('\n')
	_, err = io.WriteString(w, sb.String())
	return err
}

func encodeEDN(sb *strings.Builder, v any, level int, pretty bool) {
	switch t := v.(type) {
	case nil:
		sb.WriteString("nil")
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case string:
		sb.WriteString(strconv.Quote(t))
	case float64:
		// encoding/json hands all numbers over as float64.
		if float64(int64(t)) == t {
			sb.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			sb.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		sb.WriteByte('[')
		for i, el := range t {
			sepEDN(sb, i, level+1, pretty)
			encodeEDN(sb, el, level+1, pretty)
		}
		closeEDN(sb, len(t), level, pretty)
		sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			sepEDN(sb, i, level+1, pretty)
			sb.WriteByte(':')
			sb.WriteString(strings.ReplaceAll(strings.TrimSpace(k), " ", "-"))
			sb.WriteByte(' ')
			encodeEDN(sb, t[k], level+1, pretty)
		}
		closeEDN(sb, len(keys), level, pretty)
		sb.WriteByte('}')
	default:
		// Unreachable for values that came through JSON, but stay total.
		sb.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func sepEDN(sb *strings.Builder, i, level int, pretty bool) {
	if pretty {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat("  ", level))
		return
	}
	if i > 0 {
		sb.WriteByte(' ')
	}
}

func closeEDN(sb *strings.Builder, n, level int, pretty bool) {
	if pretty && n > 0 {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat("  ", level))
	}
}
