package listctl

import (
	"errors"
	"fmt"
	"testing"

	"folio-cli/internal/model"
)

func pageOf(ids ...string) model.ListPage {
	p := model.ListPage{Total: len(ids)}
	for _, id := range ids {
		p.Items = append(p.Items, model.Entry{ID: id, Title: "t-" + id})
	}
	return p
}

func ids(items []model.Entry) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.ID)
	}
	return out
}

func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			q := append(append(append([]int{}, p[:i]...), n-1), p[i:]...)
			out = append(out, q)
		}
	}
	return out
}

func TestLoader_OnlyLatestResponseApplies_AllInterleavings(t *testing.T) {
	t.Parallel()

	for _, order := range permutations(3) {
		order := order
		t.Run(fmt.Sprint(order), func(t *testing.T) {
			l := NewLoader(10)
			var reqs []Request
			for i := 0; i < 3; i++ {
				l.SetQuery(fmt.Sprintf("q%d", i))
				reqs = append(reqs, l.Begin())
			}
			for _, i := range order {
				loading, phase, shown := l.Loading(), l.Phase(), fmt.Sprint(ids(l.Items()))
				applied := l.Resolve(Response{Token: reqs[i].Token, Page: pageOf(fmt.Sprintf("r%d", i))})
				if applied != (i == 2) {
					t.Fatalf("response %d: applied=%v", i, applied)
				}
				if !applied && (l.Loading() != loading || l.Phase() != phase || fmt.Sprint(ids(l.Items())) != shown) {
					t.Fatalf("stale response %d changed loader state", i)
				}
			}
			if got := ids(l.Items()); len(got) != 1 || got[0] != "r2" {
				t.Fatalf("expected only the latest response displayed; got %v", got)
			}
			if l.Loading() || l.Phase() != PhaseLoaded {
				t.Fatalf("expected loaded; got loading=%v phase=%s", l.Loading(), l.Phase())
			}
		})
	}
}

func TestLoader_StaleResponseKeepsLoadingFlag(t *testing.T) {
	t.Parallel()

	l := NewLoader(10)
	first := l.Begin()
	l.Begin()
	if l.Resolve(Response{Token: first.Token, Page: pageOf("old")}) {
		t.Fatalf("expected stale response to be dropped")
	}
	if !l.Loading() || l.Len() != 0 {
		t.Fatalf("stale response must not clear loading or fill rows; loading=%v len=%d", l.Loading(), l.Len())
	}
	if l.Resolve(Response{Token: first.Token, Err: errors.New("late failure")}) {
		t.Fatalf("expected stale error to be dropped")
	}
	if l.Err() != nil {
		t.Fatalf("stale error must not be recorded; got %v", l.Err())
	}
}

func TestLoader_ErrorEmptiesList(t *testing.T) {
	t.Parallel()

	l := NewLoader(10)
	l.Resolve(Response{Token: l.Begin().Token, Page: pageOf("a", "b")})
	if l.Len() != 2 {
		t.Fatalf("expected 2 rows; got %d", l.Len())
	}
	boom := errors.New("boom")
	l.Resolve(Response{Token: l.Begin().Token, Err: boom})
	if l.Len() != 0 || l.Total() != 0 {
		t.Fatalf("expected empty list after failure; len=%d total=%d", l.Len(), l.Total())
	}
	if !errors.Is(l.Err(), boom) || l.Phase() != PhaseErrored {
		t.Fatalf("expected errored phase; got %s err=%v", l.Phase(), l.Err())
	}
}

func TestLoader_PaginationBounds(t *testing.T) {
	t.Parallel()

	l := NewLoader(10)
	l.Resolve(Response{Token: l.Begin().Token, Page: model.ListPage{Items: pageOf("a").Items, Total: 25}})
	if l.TotalPages() != 3 {
		t.Fatalf("expected 3 pages; got %d", l.TotalPages())
	}
	if l.CanPrev() || l.PrevPage() {
		t.Fatalf("prev must be disabled on page 1")
	}
	if !l.NextPage() || !l.NextPage() {
		t.Fatalf("expected to advance to page 3")
	}
	if l.Page() != 3 || l.CanNext() || l.NextPage() {
		t.Fatalf("next must be disabled on the last page; page=%d", l.Page())
	}
	l.SetQuery("  go ")
	if l.Page() != 1 || l.Query() != "go" {
		t.Fatalf("query change must reset to page 1; page=%d query=%q", l.Page(), l.Query())
	}
	req := l.Begin()
	if req.Page != 1 || req.Limit != 10 || req.Query != "go" {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestPagerMath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{25, 0, 3},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.size); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d; want %d", tc.total, tc.size, got, tc.want)
		}
	}
	if CanNext(1, 0, 10) {
		t.Fatalf("empty list has no next page")
	}
	if !CanPrev(2) || CanPrev(1) {
		t.Fatalf("CanPrev is page > 1")
	}
}

func TestLoader_ItemsAreCopies(t *testing.T) {
	t.Parallel()

	l := NewLoader(0)
	if l.PageSize() != DefaultPageSize {
		t.Fatalf("expected default page size; got %d", l.PageSize())
	}
	p := pageOf("a")
	p.Items[0].Tags = []string{"go"}
	l.Resolve(Response{Token: l.Begin().Token, Page: p})
	p.Items[0].Tags[0] = "mutated"
	items := l.Items()
	items[0].Title = "changed"
	e, ok := l.Find("a")
	if !ok || e.Title != "t-a" || e.Tags[0] != "go" {
		t.Fatalf("loader state leaked through a copy: %+v", e)
	}
}
