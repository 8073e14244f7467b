package utils

import "testing"

func TestFormatMpesaPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0712345678", "254712345678"},
		{"+254712345678", "254712345678"},
		{"254712345678", "254712345678"},
		{" 0712 345 678 ", "254712345678"},
	}
	for _, tc := range cases {
		if got := FormatMpesaPhone(tc.in); got != tc.want {
			t.Errorf("FormatMpesaPhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatSMSPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0712345678", "+254712345678"},
		{"254712345678", "+254712345678"},
		{"+254712345678", "+254712345678"},
	}
	for _, tc := range cases {
		if got := FormatSMSPhone(tc.in); got != tc.want {
			t.Errorf("FormatSMSPhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
