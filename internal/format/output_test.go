package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteJSONCompactAndPretty(t *testing.T) {
	v := map[string]any{"data": map[string]any{"id": "node-a", "count": 2}}

	var buf bytes.Buffer
	if err := Write(&buf, v, "json", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := strings.TrimSpace(buf.String())
	want := `{"data":{"count":2,"id":"node-a"}}`
	if got != want {
		t.Fatalf("compact json: got %s want %s", got, want)
	}

	buf.Reset()
	if err := Write(&buf, v, "", true); err != nil {
		t.Fatalf("write pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"data\"") {
		t.Fatalf("expected indented output; got %q", buf.String())
	}
}

func TestWriteFormatNameIsCaseInsensitive(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"a": 1}, " EDN ", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "{:a 1}" {
		t.Fatalf("edn: got %q", got)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{}, "xml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWriteEDN(t *testing.T) {
	v := map[string]any{
		"data": map[string]any{
			"id":        "node-a",
			"completed": true,
			"count":     2,
			"endDate":   nil,
			"tags":      []string{"x", "y"},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatalf("write edn: %v", err)
	}
	got := strings.TrimSpace(buf.String())
	want := `{:data {:completed true :count 2 :endDate nil :id "node-a" :tags ["x" "y"]}}`
	if got != want {
		t.Fatalf("edn: got %s want %s", got, want)
	}
}

func TestWriteEDNStructUsesJSONTags(t *testing.T) {
	type payload struct {
		NodeID string  `json:"nodeId"`
		Score  float64 `json:"score"`
	}

	var buf bytes.Buffer
	if err := WriteEDN(&buf, payload{NodeID: "node-b", Score: 1.5}, false); err != nil {
		t.Fatalf("write edn: %v", err)
	}
	got := strings.TrimSpace(buf.String())
	want := `{:nodeId "node-b" :score 1.5}`
	if got != want {
		t.Fatalf("edn struct: got %s want %s", got, want)
	}
}

func TestWriteEDNPrettyIndents(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"a": []int{1}}, true); err != nil {
		t.Fatalf("write edn: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  :a") {
		t.Fatalf("expected indented edn; got %q", buf.String())
	}
}
