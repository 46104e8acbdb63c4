package variant

import "testing"

func TestHoldemValidates(t *testing.T) {
	d := Holdem()
	if err := d.Validate(); err != nil {
		t.Fatalf("Holdem() failed validation: %v", err)
	}
	if len(d.Rounds) != 4 {
		t.Fatalf("expected 4 rounds, got %d", len(d.Rounds))
	}
	if d.Sides()[0] != SideHi || len(d.Sides()) != 1 {
		t.Fatalf("hold'em should award hi only, got %+v", d.Sides())
	}
}

func TestOmaha8AddsLowSide(t *testing.T) {
	d := Omaha8()
	if err := d.Validate(); err != nil {
		t.Fatalf("Omaha8() failed validation: %v", err)
	}
	sides := d.Sides()
	if len(sides) != 2 || sides[0] != SideHi || sides[1] != SideLow8 {
		t.Fatalf("expected [hi, low8] sides, got %+v", sides)
	}
	if d.Rounds[0].HandSizeTarget != 4 {
		t.Fatalf("omaha variants deal 4 hole cards, got target %d", d.Rounds[0].HandSizeTarget)
	}
}

func TestSevenCardStudValidates(t *testing.T) {
	d := SevenCardStud()
	if err := d.Validate(); err != nil {
		t.Fatalf("SevenCardStud() failed validation: %v", err)
	}
	if d.Rounds[0].PositionRule != Low {
		t.Fatalf("third street should act low first, got %v", d.Rounds[0].PositionRule)
	}
	if d.Rounds[len(d.Rounds)-1].HandSizeTarget != 7 {
		t.Fatalf("seven card stud should reach 7 cards by seventh street")
	}
}

func TestValidateRejectsNoRounds(t *testing.T) {
	d := Descriptor{Name: "empty", Ways: HiOnly}
	if err := d.Validate(); err == nil {
		t.Fatalf("expected an error for a variant with no rounds")
	}
}

func TestValidateRejectsInvalidPositionRule(t *testing.T) {
	d := Descriptor{
		Name:   "broken",
		Ways:   HiOnly,
		Rounds: []RoundInfo{{Name: "only", PositionRule: Invalid}},
	}
	if err := d.Validate(); err == nil {
		t.Fatalf("expected an error for an invalid position rule")
	}
}

func TestValidateRejectsNegativeSizeTarget(t *testing.T) {
	d := Descriptor{
		Name:   "broken",
		Ways:   HiOnly,
		Rounds: []RoundInfo{{Name: "only", PositionRule: UnderTheGun, HandSizeTarget: -1}},
	}
	if err := d.Validate(); err == nil {
		t.Fatalf("expected an error for a negative hand size target")
	}
}

func TestValidateRejectsUnknownWays(t *testing.T) {
	d := Descriptor{
		Name:   "broken",
		Ways:   Ways(99),
		Rounds: []RoundInfo{{Name: "only", PositionRule: UnderTheGun}},
	}
	if err := d.Validate(); err == nil {
		t.Fatalf("expected an error for an unknown ways value")
	}
}

func TestPositionRuleString(t *testing.T) {
	cases := map[PositionRule]string{
		UnderTheGun: "under-the-gun",
		NextToDealer: "next-to-dealer",
		Low:     "low",
		High:    "high",
		Invalid: "invalid",
	}
	for rule, want := range cases {
		if got := rule.String(); got != want {
			t.Fatalf("PositionRule(%d).String() = %q, want %q", rule, got, want)
		}
	}
}
