package billing

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseVehicleType(t *testing.T) {
	cases := map[string]VehicleType{
		"car":        Car,
		"CAR":        Car,
		" van ":      Van,
		"motorcycle": Motorcycle,
	}
	for input, want := range cases {
		got, err := ParseVehicleType(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", input, want, got)
		}
	}

	if _, err := ParseVehicleType("bicycle"); !errors.Is(err, ErrUnknownVehicleType) {
		t.Fatalf("expected ErrUnknownVehicleType, got %v", err)
	}
}

func TestSpotsForFailsLoudlyOnUnknownType(t *testing.T) {
	tariff := Tariff{MotorcycleSpots: 1, CarSpots: 2, VanSpots: 3}

	spots, err := tariff.SpotsFor(Van)
	if err != nil || spots != 3 {
		t.Fatalf("expected 3 van spots, got %d (%v)", spots, err)
	}

	if _, err := tariff.SpotsFor(VehicleType("truck")); !errors.Is(err, ErrUnknownVehicleType) {
		t.Fatalf("expected ErrUnknownVehicleType, got %v", err)
	}
}

func TestTimeOfDayJSONRoundTrip(t *testing.T) {
	parsed, err := ParseTimeOfDay("08:30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Minutes() != 510 {
		t.Fatalf("expected 510 minutes, got %d", parsed.Minutes())
	}

	encoded, err := json.Marshal(parsed)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `"08:30"` {
		t.Fatalf("expected \"08:30\", got %s", encoded)
	}

	var decoded TimeOfDay
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != parsed {
		t.Fatalf("round trip mismatch: %v != %v", decoded, parsed)
	}
}

func TestTariffValidate(t *testing.T) {
	opens, _ := ParseTimeOfDay("08:00")
	closes, _ := ParseTimeOfDay("18:00")

	valid := Tariff{OpensAt: opens, ClosesAt: closes}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid tariff, got %v", err)
	}

	inverted := Tariff{OpensAt: closes, ClosesAt: opens}
	if err := inverted.Validate(); !errors.Is(err, ErrInvalidBusinessWindow) {
		t.Fatalf("expected ErrInvalidBusinessWindow, got %v", err)
	}
}
