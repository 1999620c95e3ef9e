package auth

import "testing"

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name   string
		caller Caller
		owner  string
		want   bool
	}{
		{"owner", Caller{ID: "u1", Role: RoleUser}, "u1", true},
		{"publisher owner", Caller{ID: "u1", Role: RolePublisher}, "u1", true},
		{"stranger", Caller{ID: "u2", Role: RoleUser}, "u1", false},
		{"admin stranger", Caller{ID: "a1", Role: RoleAdmin}, "u1", true},
		{"anonymous vs unowned", Caller{}, "", false},
	}
	for _, tc := range cases {
		if got := Authorize(tc.caller, tc.owner); got != tc.want {
			t.Errorf("%s: Authorize(%+v, %q) = %v, want %v", tc.name, tc.caller, tc.owner, got, tc.want)
		}
	}
}
