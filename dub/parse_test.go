package dub

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	type test struct {
		input string
		want  Command
	}
	tests := []test{
		{
			input: "knob 0 4095",
			want: Command{
				Name: Identifier("knob"),
				Args: []Node{Int(0), Int(4095)},
			},
		},
		{
			input: "set interval 37.5",
			want: Command{
				Name: Identifier("set"),
				Args: []Node{Identifier("interval"), Float(37.5)},
			},
		},
		{
			input: "status",
			want:  Command{Name: Identifier("status")},
		},
		{
			input: "   # nothing to do",
			want:  Command{},
		},
		{
			input: `run "a/file.dub"`,
			want: Command{
				Name: Identifier("run"),
				Args: []Node{String("a/file.dub")},
			},
		},
		{
			input: `run ""`,
			want: Command{
				Name: Identifier("run"),
				Args: []Node{String("")},
			},
		},
	}
	for _, test := range tests {
		t.Log(test.input)
		got, err := Parse(test.input)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(test.want, got) {
			t.Errorf("\nwant: %+v\ngot:  %+v", test.want, got)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"42 knob",
		`"knob" 1`,
	} {
		if _, err := Parse(input); err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}
