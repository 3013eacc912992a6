package entities

import "testing"

func TestParseMeetingDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2023-05-01", "2023-05-01", true},
		{"05/02/2023", "2023-05-02", true},
		{"02-05-2023", "2023-05-02", true},
		{"May 1, 2023", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMeetingDate(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("%q: unexpected err=%v", tc.in, err)
			continue
		}
		if tc.ok && got.Format("2006-01-02") != tc.want {
			t.Errorf("%q: got %s, want %s", tc.in, got.Format("2006-01-02"), tc.want)
		}
	}
}

func TestAgendaKey(t *testing.T) {
	if got := AgendaKey("M999", 1); got != "M999:1" {
		t.Fatalf("unexpected key %q", got)
	}
	a := &Agenda{MeetingID: "M1", ItemNumber: 3}
	if a.Key() != "M1:3" {
		t.Fatalf("unexpected key %q", a.Key())
	}
}
