package textnorm

import "testing"

func TestFoldStripsAccentsAndCase(t *testing.T) {
	cases := map[string]string{
		"Médina":        "medina",
		"  Casablanca ": "casablanca",
		"GUÉLIZ":        "gueliz",
		"agadir":        "agadir",
		"":              "",
	}

	for input, want := range cases {
		if got := Fold(input); got != want {
			t.Fatalf("Fold(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestContainsFoldBidirectional(t *testing.T) {
	if !ContainsFold("Quartier Gauthier, Casablanca", "casablanca") {
		t.Fatal("expected longer string to contain shorter")
	}
	if !ContainsFold("gueliz", "Guéliz, Marrakech") {
		t.Fatal("expected containment to work in both directions")
	}
	if ContainsFold("Rabat", "Fès") {
		t.Fatal("unrelated strings must not match")
	}
}

func TestContainsFoldEmptyNeverMatches(t *testing.T) {
	if ContainsFold("", "casablanca") {
		t.Fatal("empty input must not match")
	}
	if ContainsFold("  ", "  ") {
		t.Fatal("whitespace-only input must not match")
	}
}

func TestEqualFold(t *testing.T) {
	if !EqualFold("Médina", "medina") {
		t.Fatal("accented and plain forms should be equal after folding")
	}
	if EqualFold("tanger", "tangier") {
		t.Fatal("different strings must not be equal")
	}
}
