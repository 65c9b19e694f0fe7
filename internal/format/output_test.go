package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Priority int      `json:"priority"`
	Score    float64  `json:"score"`
	Tags     []string `json:"tags"`
	Active   bool     `json:"active"`
	Note     *string  `json:"note"`
}

func TestWriteEDN_KeywordsSortedKeysAndInts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := map[string]any{"data": sample{ID: "p1", Title: `say "hi"`, Priority: 3, Score: 1.5, Tags: []string{"go"}, Active: true}}
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{:data {:active true :id "p1" :note nil :priority 3 :score 1.5 :tags ["go"] :title "say \"hi\""}}` + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected edn:\nwant: %s\ngot:  %s", want, buf.String())
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"items": []any{map[string]any{"id": "a"}, map[string]any{"id": "b"}}, "total": 2}, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, ":items") || !strings.Contains(out, ":total") || !strings.Contains(out, `"b"`) {
		t.Fatalf("unexpected pretty edn: %s", out)
	}
}

func TestWrite_JSONAndUnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]int{"total": 2}, "", false); err != nil {
		t.Fatalf("Write json: %v", err)
	}
	if buf.String() != "{\"total\":2}\n" {
		t.Fatalf("unexpected json %q", buf.String())
	}
	if err := Write(&buf, 1, "xml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWriteYAML_UsesJSONNamesAndPlainNumbers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := map[string]any{"data": sample{ID: "p1", Title: "Site", Priority: 3, Score: 1.5, Tags: []string{"go"}}}
	if err := Write(&buf, v, "YAML", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := strings.Join([]string{
		"data:",
		"  active: false",
		"  id: p1",
		"  note: null",
		"  priority: 3",
		"  score: 1.5",
		"  tags:",
		"    - go",
		"  title: Site",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected yaml:\nwant: %q\ngot:  %q", want, buf.String())
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "json"},
		{in: " JSON ", want: "json"},
		{in: "edn", want: "edn"},
		{in: "yml", want: "yaml"},
		{in: "toml", wantErr: true},
	}
	for _, tc := range cases {
		got, err := Normalize(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Normalize(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("Normalize(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}
