package domain

import "testing"

func TestStatusTransitions(t *testing.T) {
	allowed := [][2]Status{
		{StatusNew, StatusProcessing},
		{StatusNew, StatusMatched},
		{StatusProcessing, StatusMatched},
		{StatusMatched, StatusContacted},
		{StatusContacted, StatusCompleted},
		{StatusNew, StatusCancelled},
		{StatusMatched, StatusCancelled},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}

	forbidden := [][2]Status{
		{StatusCompleted, StatusNew},
		{StatusCancelled, StatusProcessing},
		{StatusMatched, StatusNew},
		{StatusContacted, StatusMatched},
	}
	for _, pair := range forbidden {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be forbidden", pair[0], pair[1])
		}
	}
}

func TestOpenStatuses(t *testing.T) {
	if !StatusNew.IsOpen() || !StatusProcessing.IsOpen() {
		t.Fatal("new and processing should be open for rescans")
	}
	for _, s := range []Status{StatusMatched, StatusContacted, StatusCompleted, StatusCancelled} {
		if s.IsOpen() {
			t.Fatalf("%s should not be open", s)
		}
	}
}

func TestSellerTypes(t *testing.T) {
	if TypePropertySearch.IsSeller() {
		t.Fatal("property_search is not a seller type")
	}
	if !TypePropertySale.IsSeller() || !TypePropertyRentalManagement.IsSeller() {
		t.Fatal("sale and rental management are seller types")
	}
}

func TestCriteriaIsZero(t *testing.T) {
	if !(Criteria{}).IsZero() {
		t.Fatal("empty criteria should be zero")
	}
	min := 3
	if (Criteria{BedsMin: &min}).IsZero() {
		t.Fatal("criteria with a bed bound is not zero")
	}
	if (Criteria{Locations: []string{"Rabat"}}).IsZero() {
		t.Fatal("criteria with a location is not zero")
	}
}
