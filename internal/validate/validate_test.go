package validate

import "testing"

func TestID(t *testing.T) {
	if _, ok := ID(" xps-13 "); !ok {
		t.Fatal("xps-13 should be valid")
	}
	for _, bad := range []string{"", "a b", "<script>", "../etc"} {
		if _, ok := ID(bad); ok {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}

func TestComment(t *testing.T) {
	cases := map[string]string{
		"":                  "",
		" \t\n":             "",
		"  ok  ":            "ok",
		"line1\nline2\x00":  "line1\nline2",
		"bell\x07 and more": "bell and more",
	}
	for in, want := range cases {
		if got := Comment(in); got != want {
			t.Fatalf("Comment(%q) = %q, want %q", in, got, want)
		}
	}
	long := make([]rune, MaxCommentLen+20)
	for i := range long {
		long[i] = 'é'
	}
	if got := []rune(Comment(string(long))); len(got) != MaxCommentLen {
		t.Fatalf("want %d runes, got %d", MaxCommentLen, len(got))
	}
}

func TestStarsAndSlug(t *testing.T) {
	if Stars("4") != 4 || Stars("0") != 0 || Stars("6") != 0 || Stars("x") != 0 {
		t.Fatal("Stars bounds broken")
	}
	if got := Slug("  Audio & Video "); got != "audio-video" {
		t.Fatalf("Slug = %q", got)
	}
	if got, ok := Name("  Home   Office ", 20); !ok || got != "Home Office" {
		t.Fatalf("Name = %q %v", got, ok)
	}
}
