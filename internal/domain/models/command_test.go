package models

import "testing"

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in   string
		want CommandType
		args int
	}{
		{"/milk HC-001 14.5 12", CommandMilk, 3},
		{"MILK hc-001 1 2", CommandMilk, 3},
		{"/expenses 200 feed", CommandExpense, 2},
		{"  /summary  ", CommandSummary, 0},
		{"hello there", CommandUnknown, 1},
		{"", CommandUnknown, 0},
	}
	for _, tc := range cases {
		cmd := ParseCommand(tc.in)
		if cmd.Type != tc.want || len(cmd.Args) != tc.args {
			t.Fatalf("ParseCommand(%q) = %s %v", tc.in, cmd.Type, cmd.Args)
		}
	}

	if cmd := ParseCommand("/stock Corn Silage 30"); cmd.Args[0] != "Corn" {
		t.Fatalf("arguments must keep their case: %v", cmd.Args)
	}
}
