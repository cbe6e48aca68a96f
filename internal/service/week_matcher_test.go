package service

import (
	"fmt"
	"testing"
)

func TestOccursInWeek_Range(t *testing.T) {
	for a := 1; a <= 6; a++ {
		for b := a; b <= 8; b++ {
			expr := fmt.Sprintf("%d-%d", a, b)
			for w := 0; w <= 10; w++ {
				want := a <= w && w <= b
				if got := OccursInWeek(expr, w); got != want {
					t.Errorf("OccursInWeek(%q, %d) = %v, 期望 %v", expr, w, got, want)
				}
			}
		}
	}
}

func TestOccursInWeek_ReversedRangeNeverMatches(t *testing.T) {
	for w := -1; w <= 10; w++ {
		if OccursInWeek("5-3", w) {
			t.Errorf("区间 5-3 不应匹配第 %d 周", w)
		}
	}
}

func TestOccursInWeek_Mixed(t *testing.T) {
	for w := 0; w <= 15; w++ {
		want := w == 2 || w == 12 || (5 <= w && w <= 9)
		if got := OccursInWeek("2,5-9,12", w); got != want {
			t.Errorf("OccursInWeek(\"2,5-9,12\", %d) = %v, 期望 %v", w, got, want)
		}
	}
}

func TestOccursInWeek_Malformed(t *testing.T) {
	cases := []struct {
		name string
		expr string
		week int
		want bool
	}{
		{"空串", "", 1, false},
		{"仅空白", "   ", 1, false},
		{"非数字", "abc", 1, false},
		{"区间含非数字", "1-x", 1, false},
		{"三段区间", "1-3-5", 2, false},
		{"负数", "-3", 3, false},
		{"末尾逗号", "1,", 1, true},
		{"坏段在命中之前", "x,5", 5, false},
		{"坏段在命中之后", "5,x", 5, true},
		{"两侧空白", " 2 - 4 , 7", 3, true},
		{"小数", "5.0", 5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OccursInWeek(tc.expr, tc.week); got != tc.want {
				t.Errorf("OccursInWeek(%q, %d) = %v, 期望 %v", tc.expr, tc.week, got, tc.want)
			}
		})
	}
}
