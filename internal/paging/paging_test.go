package paging

import (
	"reflect"
	"testing"
)

func pages(ps ...int) []Item {
	if len(ps) == 0 {
		return nil
	}
	items := make([]Item, len(ps))
	for i, p := range ps {
		items[i] = Item{Page: p}
	}
	return items
}

func TestCompute(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		current int
		total   int
		window  int
		want    Window
	}{
		{
			name:    "middle of long listing",
			current: 7, total: 20, window: 5,
			want: Window{
				Items:       pages(1, Gap, 5, 6, 7, 8, 9, Gap, 20),
				PrevEnabled: true,
				NextEnabled: true,
			},
		},
		{
			name:    "single page shows no buttons",
			current: 1, total: 1, window: 5,
			want: Window{},
		},
		{
			name:    "zero pages",
			current: 1, total: 0, window: 5,
			want: Window{},
		},
		{
			name:    "first page of long listing",
			current: 1, total: 20, window: 5,
			want: Window{
				Items:       pages(1, 2, 3, 4, 5, Gap, 20),
				NextEnabled: true,
			},
		},
		{
			name:    "last page slides window left",
			current: 20, total: 20, window: 5,
			want: Window{
				Items:       pages(1, Gap, 16, 17, 18, 19, 20),
				PrevEnabled: true,
			},
		},
		{
			name:    "start of two gets bare one without gap",
			current: 4, total: 20, window: 5,
			want: Window{
				// start=2 end=6: leading 1 with no ellipsis
				Items:       pages(1, 2, 3, 4, 5, 6, Gap, 20),
				PrevEnabled: true,
				NextEnabled: true,
			},
		},
		{
			name:    "end one short of total gets bare last page",
			current: 17, total: 20, window: 5,
			want: Window{
				// end=19: trailing 20 with no ellipsis
				Items:       pages(1, Gap, 15, 16, 17, 18, 19, 20),
				PrevEnabled: true,
				NextEnabled: true,
			},
		},
		{
			name:    "window covers everything",
			current: 2, total: 4, window: 5,
			want: Window{
				Items:       pages(1, 2, 3, 4),
				PrevEnabled: true,
				NextEnabled: true,
			},
		},
		{
			name:    "even window falls back to five",
			current: 7, total: 20, window: 4,
			want: Window{
				Items:       pages(1, Gap, 5, 6, 7, 8, 9, Gap, 20),
				PrevEnabled: true,
				NextEnabled: true,
			},
		},
		{
			name:    "current clamped above total",
			current: 99, total: 3, window: 5,
			want: Window{
				Items:       pages(1, 2, 3),
				PrevEnabled: true,
			},
		},
		{
			name:    "current clamped below one",
			current: 0, total: 3, window: 5,
			want: Window{
				Items:       pages(1, 2, 3),
				NextEnabled: true,
			},
		},
		{
			name:    "window of three",
			current: 5, total: 9, window: 3,
			want: Window{
				Items:       pages(1, Gap, 4, 5, 6, Gap, 9),
				PrevEnabled: true,
				NextEnabled: true,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(tc.current, tc.total, tc.window)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Compute(%d, %d, %d) = %+v, want %+v",
					tc.current, tc.total, tc.window, got, tc.want)
			}
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	t.Parallel()

	first := Compute(7, 20, 5)
	for i := 0; i < 10; i++ {
		if got := Compute(7, 20, 5); !reflect.DeepEqual(got, first) {
			t.Fatalf("Compute varied between calls: %+v vs %+v", got, first)
		}
	}
}

func TestCompute_WindowInvariants(t *testing.T) {
	t.Parallel()

	// Every window must list its pages in increasing order, never repeat a
	// page, and always include the current page.
	for total := 0; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			w := Compute(current, total, 5)
			if total <= 1 {
				if len(w.Items) != 0 {
					t.Fatalf("Compute(%d, %d, 5) produced buttons for trivial listing", current, total)
				}
				continue
			}
			seen := map[int]bool{}
			last := 0
			foundCurrent := false
			for _, item := range w.Items {
				if item.IsGap() {
					continue
				}
				if item.Page <= last {
					t.Fatalf("Compute(%d, %d, 5): pages out of order: %+v", current, total, w.Items)
				}
				if seen[item.Page] {
					t.Fatalf("Compute(%d, %d, 5): duplicate page %d", current, total, item.Page)
				}
				seen[item.Page] = true
				last = item.Page
				if item.Page == current {
					foundCurrent = true
				}
			}
			if !foundCurrent {
				t.Fatalf("Compute(%d, %d, 5): current page missing: %+v", current, total, w.Items)
			}
			if w.PrevEnabled != (current > 1) || w.NextEnabled != (current < total) {
				t.Fatalf("Compute(%d, %d, 5): nav flags prev=%v next=%v", current, total, w.PrevEnabled, w.NextEnabled)
			}
		}
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		items, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{-1, 10, 0},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.items, tc.size); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tc.items, tc.size, got, tc.want)
		}
	}
}
