package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"olympos.io/encoding/edn"
)

// WriteEDN writes an EDN representation of v. Structs go through JSON first so json tags
// decide field naming; object keys become keywords and are written in sorted order.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := generic(v)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := writeEDNValue(&buf, x); err != nil {
		return err
	}
	out := buf.Bytes()
	if pretty {
		var pp bytes.Buffer
		if err := edn.PPrint(&pp, out, &edn.PPrintOpts{}); err != nil {
			return err
		}
		out = pp.Bytes()
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func writeEDNValue(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case []any:
		buf.WriteByte('[')
		for i, it := range t {
			if i > 0 {
				buf.WriteByte(' ')
			}
			if err := writeEDNValue(buf, it); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(' ')
			}
			if err := writeEDNScalar(buf, ednKeyword(k)); err != nil {
				return err
			}
			buf.WriteByte(' ')
			if err := writeEDNValue(buf, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return writeEDNScalar(buf, n)
		}
		f, err := t.Float64()
		if err != nil {
			return err
		}
		return writeEDNScalar(buf, f)
	default:
		return writeEDNScalar(buf, v)
	}
}

func writeEDNScalar(buf *bytes.Buffer, v any) error {
	b, err := edn.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(bytes.TrimSpace(b))
	return nil
}

func ednKeyword(s string) edn.Keyword {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "-")
	return edn.Keyword(s)
}
