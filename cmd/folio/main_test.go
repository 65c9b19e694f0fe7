package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"folio"},
			want: []string{"folio"},
		},
		{
			name: "singular kind first token",
			in:   []string{"folio", "blog", "b-1"},
			want: []string{"folio", "blogs", "get", "b-1"},
		},
		{
			name: "cert alias",
			in:   []string{"folio", "cert", "c-1"},
			want: []string{"folio", "certifications", "get", "c-1"},
		},
		{
			name: "after value flag",
			in:   []string{"folio", "--api", "http://localhost:3000", "project", "p-1"},
			want: []string{"folio", "--api", "http://localhost:3000", "projects", "get", "p-1"},
		},
		{
			name: "after equals flag",
			in:   []string{"folio", "--dir=./tmp", "project", "p-1"},
			want: []string{"folio", "--dir=./tmp", "projects", "get", "p-1"},
		},
		{
			name: "after bool flag",
			in:   []string{"folio", "--pretty", "blog", "b-1"},
			want: []string{"folio", "--pretty", "blogs", "get", "b-1"},
		},
		{
			name: "singular kind without id",
			in:   []string{"folio", "blog"},
			want: []string{"folio", "blog"},
		},
		{
			name: "singular kind followed by a flag",
			in:   []string{"folio", "blog", "--help"},
			want: []string{"folio", "blog", "--help"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"folio", "blogs", "get", "b-1"},
			want: []string{"folio", "blogs", "get", "b-1"},
		},
		{
			name: "double dash stops rewriting",
			in:   []string{"folio", "--", "blog", "b-1"},
			want: []string{"folio", "--", "blog", "b-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectLookupArgs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
