package icons

import "testing"

func ids(in []Def) []string {
	out := make([]string, len(in))
	for i, d := range in {
		out[i] = d.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sample() []Def {
	return []Def{
		{ID: "games", Title: "Games", Type: "folder", DateModified: "2024-03-01"},
		{ID: "about", Title: "About Me", Type: "", DateModified: ""},
		{ID: "resume", Title: "Resume", Type: "pdf", DateModified: "1700000000000"},
		{ID: "calc", Title: "calculator", Type: "app", DateModified: "2023-01-15T10:00:00Z"},
	}
}

func TestSortIcons_NameTwiceReverses(t *testing.T) {
	e := NewEngine(sample())

	e.SortIcons(SortName)
	asc := ids(e.Icons())
	if want := []string{"about", "calc", "games", "resume"}; !equal(asc, want) {
		t.Fatalf("ascending by name: got %v, want %v", asc, want)
	}
	if key, dir := e.Sort(); key != SortName || dir != Ascending {
		t.Fatalf("expected name/asc, got %s/%s", key, dir)
	}

	e.SortIcons(SortName)
	desc := ids(e.Icons())
	if want := []string{"resume", "games", "calc", "about"}; !equal(desc, want) {
		t.Fatalf("descending by name: got %v, want %v", desc, want)
	}
	if _, dir := e.Sort(); dir != Descending {
		t.Fatalf("expected descending after second call")
	}
}

func TestSortIcons_NewKeyResetsAscending(t *testing.T) {
	e := NewEngine(sample())
	e.SortIcons(SortName)
	e.SortIcons(SortName)
	e.SortIcons(SortType)

	key, dir := e.Sort()
	if key != SortType || dir != Ascending {
		t.Fatalf("expected type/asc, got %s/%s", key, dir)
	}
	got := ids(e.Icons())
	// Empty type sorts first.
	if got[0] != "about" {
		t.Fatalf("expected empty type first, got %v", got)
	}
	if want := []string{"about", "calc", "games", "resume"}; !equal(got, want) {
		t.Fatalf("by type: got %v, want %v", got, want)
	}
}

func TestSortIcons_DateModifiedMissingIsEpoch(t *testing.T) {
	e := NewEngine(sample())
	e.SortIcons(SortDateModified)
	got := ids(e.Icons())
	if want := []string{"about", "calc", "resume", "games"}; !equal(got, want) {
		t.Fatalf("by date: got %v, want %v", got, want)
	}
}

func TestSortIcons_UnknownKeyIgnored(t *testing.T) {
	e := NewEngine(sample())
	before := ids(e.Icons())
	e.SortIcons(SortKey("size"))
	if !equal(before, ids(e.Icons())) {
		t.Fatalf("expected unknown key to leave order unchanged")
	}
	if key, _ := e.Sort(); key != SortNone {
		t.Fatalf("expected no sort key, got %q", key)
	}
}

func TestSortIcons_FeedsLayout(t *testing.T) {
	in := sample()
	for i := range in {
		in[i].ShowOnDesktop = true
	}
	e := NewEngine(in)
	e.SortIcons(SortName)
	e.Relayout(1000, 100)
	if p, _ := e.Position("about"); p != (GridPos{0, 0}) {
		t.Fatalf("expected first sorted icon at 0,0, got %+v", p)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"   ", 0},
		{"garbage", 0},
		{"1700000000000", 1700000000000},
		{"1970-01-02", 86400000},
		{"1970-01-01T00:00:01Z", 1000},
	}
	for _, tt := range tests {
		if got := ParseDate(tt.in); got != tt.want {
			t.Errorf("ParseDate(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsResizable_DefaultsTrue(t *testing.T) {
	no := false
	if !(Def{}).IsResizable() {
		t.Fatalf("expected nil resizable to default true")
	}
	if (Def{Resizable: &no}).IsResizable() {
		t.Fatalf("expected explicit false to be honoured")
	}
}
