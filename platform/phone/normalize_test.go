package phone

import "testing"

func TestE164(t *testing.T) {
	cases := []struct {
		name   string
		region string
		input  string
		want   string
	}{
		{"us national", "US", "(201) 555-0123", "+12015550123"},
		{"explicit country code", "US", "+44 121 234 5678", "+441212345678"},
		{"nl default region", "nl", "06 12345678", "+31612345678"},
		{"unparseable kept", "US", "  not a number ", "not a number"},
		{"empty", "US", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewNormalizer(tc.region).E164(tc.input)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNewNormalizerDefaultsRegion(t *testing.T) {
	if NewNormalizer("").region != DefaultRegion {
		t.Fatalf("expected default region %s", DefaultRegion)
	}
}
