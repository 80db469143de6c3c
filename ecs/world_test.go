package ecs

import (
	"testing"

	"github.com/milk9111/gunrunner/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestEntityHandles(t *testing.T) {
	cases := []struct {
		name      string
		create    int
		destroy   []int // indexes into the created handles
		recreate  int
		wantAlive int
		wantGen   generation // generation of the recreated handles
	}{
		{"fresh_world", 3, nil, 0, 3, 0},
		{"destroy_middle", 3, []int{1}, 0, 2, 0},
		{"destroy_all", 4, []int{0, 1, 2, 3}, 0, 0, 0},
		{"reuse_bumps_generation", 2, []int{0, 1}, 2, 2, 1},
		{"partial_reuse", 3, []int{2}, 2, 4, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, c.create)
			for i := range ents {
				ents[i] = CreateEntity(w)
				if !ents[i].Valid() {
					t.Fatalf("handle %v should be valid", ents[i])
				}
			}
			for _, i := range c.destroy {
				if !DestroyEntity(w, ents[i]) {
					t.Fatalf("destroy %v should succeed", ents[i])
				}
				if DestroyEntity(w, ents[i]) {
					t.Fatalf("second destroy of %v should fail", ents[i])
				}
			}

			fresh := make([]Entity, c.recreate)
			for i := range fresh {
				fresh[i] = CreateEntity(w)
			}
			if n := len(Entities(w)); n != c.wantAlive {
				t.Fatalf("expected %d live entities, got %d", c.wantAlive, n)
			}
			if c.recreate > 0 && c.wantGen > 0 {
				for _, e := range fresh {
					if e.generation() != c.wantGen {
						t.Fatalf("expected generation %d for %v", c.wantGen, e)
					}
				}
			}
			for _, i := range c.destroy {
				if IsAlive(w, ents[i]) {
					t.Fatalf("stale handle %v must stay dead after slot reuse", ents[i])
				}
			}
		})
	}
}

func TestEntityString(t *testing.T) {
	cases := []struct {
		e     Entity
		want  string
		valid bool
	}{
		{makeEntity(3, 0), "3v0", true},
		{makeEntity(7, 2), "7v2", true},
		{Entity(0), "0v0", false},
	}
	for _, c := range cases {
		if got := c.e.String(); got != c.want {
			t.Fatalf("expected %q, got %q", c.want, got)
		}
		if c.e.Valid() != c.valid {
			t.Fatalf("%v: expected valid=%v", c.e, c.valid)
		}
	}
}

func TestComponentStorage(t *testing.T) {
	w := NewWorld()
	health := component.NewComponentKind[int]()
	name := component.NewComponentKind[string]()
	a := CreateEntity(w)
	b := CreateEntity(w)

	steps := []struct {
		name string
		run  func() error
		want map[Entity][2]bool // entity -> {has health, has name}
	}{
		{"add_health", func() error { return Add(w, a, health, intPtr(10)) },
			map[Entity][2]bool{a: {true, false}, b: {false, false}}},
		{"add_names", func() error {
			if err := Add(w, a, name, stringPtr("a")); err != nil {
				return err
			}
			return Add(w, b, name, stringPtr("b"))
		}, map[Entity][2]bool{a: {true, true}, b: {false, true}}},
		{"replace_health", func() error { return Add(w, a, health, intPtr(20)) },
			map[Entity][2]bool{a: {true, true}, b: {false, true}}},
		{"remove_name", func() error {
			if !Remove(w, a, name) {
				t.Fatal("remove should report the component was present")
			}
			if Remove(w, a, name) {
				t.Fatal("second remove should report nothing removed")
			}
			return nil
		}, map[Entity][2]bool{a: {true, false}, b: {false, true}}},
		{"destroy_clears_components", func() error {
			DestroyEntity(w, b)
			return nil
		}, map[Entity][2]bool{a: {true, false}, b: {false, false}}},
	}

	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			if err := s.run(); err != nil {
				t.Fatalf("step failed: %v", err)
			}
			for e, want := range s.want {
				if got := Has(w, e, health); got != want[0] {
					t.Fatalf("%v: has health = %v, want %v", e, got, want[0])
				}
				if got := Has(w, e, name); got != want[1] {
					t.Fatalf("%v: has name = %v, want %v", e, got, want[1])
				}
			}
		})
	}

	if v, ok := Get(w, a, health); !ok || *v != 20 {
		t.Fatalf("expected replaced health 20, got %v ok=%v", v, ok)
	}
	recycled := CreateEntity(w)
	if Has(w, recycled, name) {
		t.Fatal("components must not leak into a recycled slot")
	}
	if err := Add(w, b, health, intPtr(1)); err != component.ErrEntityNotAlive {
		t.Fatalf("adding to a stale handle: expected ErrEntityNotAlive, got %v", err)
	}
}

// iterationWorld builds one entity per mask over the kinds a, b, c and d.
// The entity at index dead is destroyed.
func iterationWorld(t *testing.T, masks []string, dead int) (*World, []Entity, [4]component.ComponentKind[int]) {
	t.Helper()
	w := NewWorld()
	kinds := [4]component.ComponentKind[int]{
		component.NewComponentKind[int](),
		component.NewComponentKind[int](),
		component.NewComponentKind[int](),
		component.NewComponentKind[int](),
	}
	ents := make([]Entity, len(masks))
	for i, mask := range masks {
		ents[i] = CreateEntity(w)
		for _, r := range mask {
			if err := Add(w, ents[i], kinds[r-'a'], intPtr(i)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if dead >= 0 {
		DestroyEntity(w, ents[dead])
	}
	return w, ents, kinds
}

func TestForEachArities(t *testing.T) {
	masks := []string{"a", "abcd", "ab", "abc", "bcd", "abcd"}

	collect := map[int]func(w *World, k [4]component.ComponentKind[int]) []Entity{
		1: func(w *World, k [4]component.ComponentKind[int]) (out []Entity) {
			ForEach(w, k[0], func(e Entity, _ *int) { out = append(out, e) })
			return out
		},
		2: func(w *World, k [4]component.ComponentKind[int]) (out []Entity) {
			ForEach2(w, k[0], k[1], func(e Entity, _, _ *int) { out = append(out, e) })
			return out
		},
		3: func(w *World, k [4]component.ComponentKind[int]) (out []Entity) {
			ForEach3(w, k[0], k[1], k[2], func(e Entity, _, _, _ *int) { out = append(out, e) })
			return out
		},
		4: func(w *World, k [4]component.ComponentKind[int]) (out []Entity) {
			ForEach4(w, k[0], k[1], k[2], k[3], func(e Entity, _, _, _, _ *int) { out = append(out, e) })
			return out
		},
	}

	cases := []struct {
		name  string
		arity int
		dead  int
		want  []int
	}{
		{"one", 1, -1, []int{0, 1, 2, 3, 5}},
		{"two", 2, -1, []int{1, 2, 3, 5}},
		{"three", 3, -1, []int{1, 3, 5}},
		{"four", 4, -1, []int{1, 5}},
		{"four_skips_dead", 4, 5, []int{1}},
		{"two_skips_dead", 2, 2, []int{1, 3, 5}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, ents, kinds := iterationWorld(t, masks, c.dead)
			got := collect[c.arity](w, kinds)

			seen := make(map[Entity]bool, len(got))
			for _, e := range got {
				seen[e] = true
			}
			if len(got) != len(c.want) {
				t.Fatalf("expected %d entities, got %v", len(c.want), got)
			}
			for _, i := range c.want {
				if !seen[ents[i]] {
					t.Fatalf("expected %v in result %v", ents[i], got)
				}
			}
		})
	}

	t.Run("missing_store", func(t *testing.T) {
		w, _, kinds := iterationWorld(t, []string{"a", "ab"}, -1)
		if got := collect[4](w, kinds); len(got) != 0 {
			t.Fatalf("expected nothing when a store is missing, got %v", got)
		}
	})
}

type clockRecorder struct {
	seen []Time
}

func (s *clockRecorder) Update(w *World) {
	s.seen = append(s.seen, w.Time())
}

func TestSchedulerClock(t *testing.T) {
	cases := []struct {
		name   string
		deltas []float64
		want   Time
	}{
		{"single", []float64{0.5}, Time{Now: 0.5, Delta: 0.5, Tick: 1}},
		{"varying", []float64{0.5, 0.25}, Time{Now: 0.75, Delta: 0.25, Tick: 2}},
		{"zero_step", []float64{1, 0}, Time{Now: 1, Delta: 0, Tick: 2}},
		{"fixed_rate", []float64{0.125, 0.125, 0.125, 0.125}, Time{Now: 0.5, Delta: 0.125, Tick: 4}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			rec := &clockRecorder{}
			sched := NewScheduler(rec, nil)
			if len(sched.Systems()) != 1 {
				t.Fatalf("nil systems should be skipped, got %d", len(sched.Systems()))
			}

			for _, dt := range c.deltas {
				sched.Step(w, dt)
			}

			if len(rec.seen) != len(c.deltas) {
				t.Fatalf("expected %d updates, got %d", len(c.deltas), len(rec.seen))
			}
			if got := rec.seen[len(rec.seen)-1]; got != c.want {
				t.Fatalf("systems saw %+v, want %+v", got, c.want)
			}
			if w.Time() != c.want {
				t.Fatalf("world clock %+v, want %+v", w.Time(), c.want)
			}
		})
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	k := component.NewComponentKind[int]()

	cases := []struct {
		name string
		err  error
		run  func() error
	}{
		{"nil_value", component.ErrNilComponent, func() error { return Add[int](w, e, k, nil) }},
		{"zero_kind", component.ErrInvalidComponentKind, func() error { return Add(w, e, component.ComponentKind[int]{}, intPtr(1)) }},
		{"dead_entity", component.ErrEntityNotAlive, func() error { return Add(w, Entity(0), k, intPtr(1)) }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.run(); err != c.err {
				t.Fatalf("expected %v, got %v", c.err, err)
			}
		})
	}
}

func TestForEachToleratesDestroyDuringIteration(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	for i := 0; i < 5; i++ {
		e := CreateEntity(w)
		if err := Add(w, e, k, intPtr(i)); err != nil {
			t.Fatal(err)
		}
	}

	visited := 0
	ForEach(w, k, func(e Entity, v *int) {
		visited++
		DestroyEntity(w, e)
	})
	if visited != 5 {
		t.Fatalf("expected 5 visits, got %d", visited)
	}
	if n := len(Entities(w)); n != 0 {
		t.Fatalf("expected all entities destroyed, got %d", n)
	}
}

func TestQueryAndFirst(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	_ = Add(w, e1, ka, intPtr(1))
	_ = Add(w, e2, ka, intPtr(2))
	_ = Add(w, e2, kb, stringPtr("b"))

	got := w.Query(ka, kb)
	if len(got) != 1 || got[0] != e2 {
		t.Fatalf("expected [e2], got %v", got)
	}

	first, ok := First(w, kb)
	if !ok || first != e2 {
		t.Fatalf("expected First to return e2, got %v ok=%v", first, ok)
	}
	if _, ok := First(w, component.NewComponentKind[float64]()); ok {
		t.Fatal("expected no entity for an unused kind")
	}
}

func TestEventQueueDrain(t *testing.T) {
	w := NewWorld()
	q := w.Events()
	q.Push(Event{Type: "a"})
	q.Push(Event{Type: "b"})
	if q.Len() != 2 {
		t.Fatalf("expected 2 pending events, got %d", q.Len())
	}
	got := q.Drain()
	if len(got) != 2 || got[0].Type != "a" || got[1].Type != "b" {
		t.Fatalf("unexpected drain order %v", got)
	}
	if q.Drain() != nil {
		t.Fatal("expected empty queue after drain")
	}
}
