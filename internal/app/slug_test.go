package app

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  SOC 2 Readiness  ", "soc-2-readiness"},
		{"Crème Brûlée & Café", "creme-brulee-cafe"},
		{"under_scores and---dashes", "under-scores-and-dashes"},
		{"already-slugged", "already-slugged"},
		{"???", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	if Slugify("Repeat Me") != Slugify("Repeat Me") {
		t.Fatal("same input produced different slugs")
	}
}

func TestReadingTime(t *testing.T) {
	word := "word "
	cases := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{199, 1},
		{200, 1},
		{201, 2},
		{400, 2},
		{401, 3},
	}
	for _, tc := range cases {
		content := ""
		for i := 0; i < tc.words; i++ {
			content += word
		}
		if got := ReadingTime(content); got != tc.want {
			t.Errorf("ReadingTime(%d words) = %d, want %d", tc.words, got, tc.want)
		}
	}
}
