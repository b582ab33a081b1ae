package tags

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Tag
	}{
		{
			name: "simple list",
			raw:  "go, databases,testing",
			want: []Tag{{"go", "go"}, {"databases", "databases"}, {"testing", "testing"}},
		},
		{
			name: "drops empty entries",
			raw:  " , go,, ,",
			want: []Tag{{"go", "go"}},
		},
		{
			name: "case variants collapse to one tag, last spelling wins",
			raw:  "React,react,Vue",
			want: []Tag{{"react", "react"}, {"Vue", "vue"}},
		},
		{
			name: "spelling variants by slug",
			raw:  "Machine Learning, machine-learning",
			want: []Tag{{"machine-learning", "machine-learning"}},
		},
		{
			name: "internal whitespace collapsed",
			raw:  "  web   dev  ",
			want: []Tag{{"web dev", "web-dev"}},
		},
		{
			name: "punctuation only is dropped",
			raw:  "!!!, ok",
			want: []Tag{{"ok", "ok"}},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	got := Names([]Tag{{"Go", "go"}, {"SQL", "sql"}})
	if !reflect.DeepEqual(got, []string{"Go", "SQL"}) {
		t.Errorf("Unexpected names: %v", got)
	}
}

func TestOversized(t *testing.T) {
	ok := Normalize("Go, " + strings.Repeat("é", MaxNameLength))
	if _, found := Oversized(ok); found {
		t.Errorf("Expected %d-character tag to fit", MaxNameLength)
	}

	long := Normalize("Go, " + strings.Repeat("a", MaxNameLength+1))
	got, found := Oversized(long)
	if !found {
		t.Fatal("Expected oversized tag to be reported")
	}
	if len(got.Name) != MaxNameLength+1 {
		t.Errorf("Expected the long tag, got %q", got.Name)
	}
}
