package domain

import "testing"

func TestNewCoordinatesValidatesRanges(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon float64
		wantErr  bool
	}{
		{"valid", 51.222975, 9.267577, false},
		{"equator antimeridian", 0, 180, false},
		{"poles", -90, 0, false},
		{"latitude too high", 90.1, 0, true},
		{"latitude too low", -91, 0, true},
		{"longitude too high", 0, 180.5, true},
		{"longitude too low", 0, -181, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCoordinates(tc.lat, tc.lon)
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseCoordinates(t *testing.T) {
	c, ok := ParseCoordinates("51.222975, 9.267577")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if c.Lat != 51.222975 || c.Lon != 9.267577 {
		t.Fatalf("coords = %v, want 51.222975,9.267577", c)
	}

	for _, bad := range []string{"", "51.2", "a,b", "51.2,9.3,0", "95,9", "not_home"} {
		if _, ok := ParseCoordinates(bad); ok {
			t.Errorf("ParseCoordinates(%q) unexpectedly succeeded", bad)
		}
	}
}

func TestLocationRefString(t *testing.T) {
	coords, err := NewCoordinates(51.25743, 9.335892)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := CoordinateRef(coords).String(); got != "51.25743,9.335892" {
		t.Fatalf("String() = %q, want 51.25743,9.335892", got)
	}
	if got := EntityRef("zone.home").String(); got != "zone.home" {
		t.Fatalf("String() = %q, want zone.home", got)
	}
}
