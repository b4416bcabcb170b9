package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	cases := map[string]string{
		"<b>Ada</b> Lovelace":                   "Ada Lovelace",
		"&lt;script&gt;alert(1)&lt;/script&gt;": "alert(1)",
		"  plain  ":                             "plain",
		"fish &amp; chips":                      "fish & chips",
	}
	for in, want := range cases {
		if got := StripHTML(in); got != want {
			t.Errorf("StripHTML(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTextPtrBlankBecomesNil(t *testing.T) {
	blank := "<p> </p>"
	if TextPtr(&blank) != nil {
		t.Fatal("expected nil for markup-only input")
	}
	if TextPtr(nil) != nil {
		t.Fatal("expected nil passthrough")
	}
}

func TestTrimPtr(t *testing.T) {
	v := "  Berlin "
	if got := TrimPtr(&v); got == nil || *got != "Berlin" {
		t.Fatalf("TrimPtr = %v", got)
	}
	empty := "   "
	if TrimPtr(&empty) != nil {
		t.Fatal("blank must map to nil")
	}
}
