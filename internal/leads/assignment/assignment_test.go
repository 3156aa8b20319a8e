package assignment

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
)

type fakeDirectory struct {
	agents map[uuid.UUID]*Candidate
}

func newFakeDirectory(agents ...*Candidate) *fakeDirectory {
	dir := &fakeDirectory{agents: make(map[uuid.UUID]*Candidate)}
	for _, a := range agents {
		dir.agents[a.ID] = a
	}
	return dir
}

func (d *fakeDirectory) ListEligible(context.Context) ([]Candidate, error) {
	eligible := make([]Candidate, 0, len(d.agents))
	for _, a := range d.agents {
		if a.CurrentLeads < a.MaxLeads {
			eligible = append(eligible, *a)
		}
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].CurrentLeads != eligible[j].CurrentLeads {
			return eligible[i].CurrentLeads < eligible[j].CurrentLeads
		}
		return eligible[i].Name < eligible[j].Name
	})
	return eligible, nil
}

func (d *fakeDirectory) Reserve(_ context.Context, id uuid.UUID) (bool, error) {
	a, ok := d.agents[id]
	if !ok || a.CurrentLeads >= a.MaxLeads {
		return false, nil
	}
	a.CurrentLeads++
	return true, nil
}

func (d *fakeDirectory) Release(_ context.Context, id uuid.UUID) error {
	if a, ok := d.agents[id]; ok && a.CurrentLeads > 0 {
		a.CurrentLeads--
	}
	return nil
}

func agent(name string, current, max int) *Candidate {
	return &Candidate{ID: uuid.New(), Name: name, CurrentLeads: current, MaxLeads: max}
}

func TestAssignFairnessOverManyRounds(t *testing.T) {
	a1, a2, a3 := agent("amal", 0, 30), agent("badr", 0, 30), agent("chafik", 0, 30)
	assigner := New(newFakeDirectory(a1, a2, a3))

	const rounds = 20
	for i := 0; i < rounds; i++ {
		got, err := assigner.Assign(context.Background())
		if err != nil {
			t.Fatalf("round %d: unexpected error: %v", i, err)
		}
		if got == nil {
			t.Fatalf("round %d: expected an assignment", i)
		}
	}

	loads := []int{a1.CurrentLeads, a2.CurrentLeads, a3.CurrentLeads}
	sort.Ints(loads)
	if loads[2]-loads[0] > 1 {
		t.Fatalf("load spread %v exceeds 1", loads)
	}
	if loads[0]+loads[1]+loads[2] != rounds {
		t.Fatalf("total load %v, want %d assignments", loads, rounds)
	}
}

func TestAssignPrefersLeastLoaded(t *testing.T) {
	light := agent("light", 1, 10)
	heavy := agent("heavy", 7, 10)
	assigner := New(newFakeDirectory(light, heavy))

	got, err := assigner.Assign(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != light.ID {
		t.Fatalf("expected least-loaded agent, got %+v", got)
	}
	if light.CurrentLeads != 2 {
		t.Fatalf("light agent load = %d, want 2", light.CurrentLeads)
	}
}

func TestAssignCapacityNeverExceeded(t *testing.T) {
	only := agent("solo", 0, 2)
	assigner := New(newFakeDirectory(only))

	for i := 0; i < 2; i++ {
		if got, _ := assigner.Assign(context.Background()); got == nil {
			t.Fatalf("assignment %d should succeed", i)
		}
	}

	got, err := assigner.Assign(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected unassigned result at capacity, got %+v", got)
	}
	if only.CurrentLeads != only.MaxLeads {
		t.Fatalf("agent load = %d, want %d", only.CurrentLeads, only.MaxLeads)
	}
}

func TestAssignZeroEligibleIsNotAnError(t *testing.T) {
	assigner := New(newFakeDirectory())

	got, err := assigner.Assign(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil assignment, got %+v", got)
	}
}

func TestReassignMovesReservation(t *testing.T) {
	from := agent("from", 3, 10)
	to := agent("to", 0, 10)
	assigner := New(newFakeDirectory(from, to))

	if err := assigner.Reassign(context.Background(), &from.ID, to.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from.CurrentLeads != 2 || to.CurrentLeads != 1 {
		t.Fatalf("loads after reassign = %d/%d, want 2/1", from.CurrentLeads, to.CurrentLeads)
	}
}

func TestReassignToFullAgentFails(t *testing.T) {
	from := agent("from", 1, 10)
	full := agent("full", 5, 5)
	assigner := New(newFakeDirectory(from, full))

	if err := assigner.Reassign(context.Background(), &from.ID, full.ID); err == nil {
		t.Fatal("expected error when target agent is full")
	}
	if from.CurrentLeads != 1 {
		t.Fatalf("source agent load changed to %d on failed reassign", from.CurrentLeads)
	}
}
