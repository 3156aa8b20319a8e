package domain

import "testing"

func TestCanTransitionHappyPath(t *testing.T) {
	path := []Status{
		StatusNew, StatusContacted, StatusQualified, StatusVisitScheduled,
		StatusVisitDone, StatusNegotiating, StatusOfferMade, StatusWon,
	}

	for i := 0; i < len(path)-1; i++ {
		if !CanTransition(path[i], path[i+1]) {
			t.Fatalf("expected %s -> %s to be allowed", path[i], path[i+1])
		}
	}
}

func TestTerminalStatesAllowNoTransitions(t *testing.T) {
	for _, terminal := range []Status{StatusWon, StatusLost} {
		if !terminal.IsTerminal() {
			t.Fatalf("%s should be terminal", terminal)
		}
		for _, to := range []Status{StatusNew, StatusContacted, StatusOnHold, StatusWon, StatusLost} {
			if CanTransition(terminal, to) {
				t.Fatalf("terminal status %s must not transition to %s", terminal, to)
			}
		}
	}
}

func TestCannotSkipToWon(t *testing.T) {
	if CanTransition(StatusNew, StatusWon) {
		t.Fatal("new -> won must not be allowed")
	}
	if CanTransition(StatusContacted, StatusOfferMade) {
		t.Fatal("contacted -> offer_made must not be allowed")
	}
}

func TestOnHoldResumes(t *testing.T) {
	if !CanTransition(StatusOnHold, StatusContacted) {
		t.Fatal("on_hold -> contacted should be allowed")
	}
	if !CanTransition(StatusVisitDone, StatusOnHold) {
		t.Fatal("visit_done -> on_hold should be allowed")
	}
}

func TestEnumValidity(t *testing.T) {
	if !Status("negotiating").IsValid() {
		t.Fatal("negotiating should be a valid status")
	}
	if Status("archived").IsValid() {
		t.Fatal("archived should not be a valid status")
	}
	if !Urgency("critical").IsValid() || Urgency("extreme").IsValid() {
		t.Fatal("urgency validity check failed")
	}
	if !Source("walk_in").IsValid() || Source("carrier_pigeon").IsValid() {
		t.Fatal("source validity check failed")
	}
}
