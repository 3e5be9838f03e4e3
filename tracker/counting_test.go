package tracker

import (
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/rhi"
)

func TestCountingCreateDestroy(t *testing.T) {
	c := NewCounting()
	c.DidCreate(rhi.ResourceEvent{ID: 1, Kind: rhi.ResourceBuffer, SizeBytes: 100})
	c.DidCreate(rhi.ResourceEvent{ID: 2, Kind: rhi.ResourceTexture, SizeBytes: 400})
	c.DidCreate(rhi.ResourceEvent{ID: 3, Kind: rhi.ResourceBuffer, SizeBytes: 50})

	s := c.Stats()
	if s.Live() != 3 || s.LiveBytes != 550 || s.PeakBytes != 550 {
		t.Fatalf("stats = %+v", s)
	}
	if k := s.Kinds[rhi.ResourceBuffer]; k.Live != 2 || k.LiveBytes != 150 {
		t.Errorf("buffer stats = %+v", k)
	}

	// Destroy events carry the create ID; sizes come from the create.
	c.DidDestroy(rhi.ResourceEvent{ID: 2, Kind: rhi.ResourceTexture})
	s = c.Stats()
	if s.Live() != 2 || s.LiveBytes != 150 || s.PeakBytes != 550 {
		t.Fatalf("stats after destroy = %+v", s)
	}
	if k := s.Kinds[rhi.ResourceTexture]; k.Live != 0 || k.Created != 1 || k.Destroyed != 1 {
		t.Errorf("texture stats = %+v", k)
	}
}

func TestCountingUnmatched(t *testing.T) {
	c := NewCounting()
	c.DidDestroy(rhi.ResourceEvent{ID: 9, Kind: rhi.ResourceBuffer})
	c.DidCreate(rhi.ResourceEvent{ID: 1, Kind: rhi.ResourceBuffer})
	c.DidDestroy(rhi.ResourceEvent{ID: 1, Kind: rhi.ResourceBuffer})
	c.DidDestroy(rhi.ResourceEvent{ID: 1, Kind: rhi.ResourceBuffer})
	if s := c.Stats(); s.Unmatched != 2 || s.Live() != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestCountingLiveOrder(t *testing.T) {
	c := NewCounting()
	for _, id := range []uint64{5, 2, 9} {
		c.DidCreate(rhi.ResourceEvent{ID: id, Kind: rhi.ResourceSamplerState})
	}
	live := c.Live()
	if len(live) != 3 || live[0].ID != 2 || live[1].ID != 5 || live[2].ID != 9 {
		t.Errorf("Live() = %+v", live)
	}
}

func TestCountingBudget(t *testing.T) {
	var calls []Stats
	c := NewCounting(WithBudget(1000), WithOverBudget(func(s Stats) { calls = append(calls, s) }))

	c.DidCreate(rhi.ResourceEvent{ID: 1, SizeBytes: 800})
	c.DidCreate(rhi.ResourceEvent{ID: 2, SizeBytes: 300})
	c.DidCreate(rhi.ResourceEvent{ID: 3, SizeBytes: 10})
	if len(calls) != 1 || calls[0].LiveBytes != 1100 {
		t.Fatalf("over-budget calls = %+v", calls)
	}

	c.DidDestroy(rhi.ResourceEvent{ID: 2})
	c.DidCreate(rhi.ResourceEvent{ID: 4, SizeBytes: 500})
	if len(calls) != 2 {
		t.Errorf("budget crossing after recovery not reported: %d calls", len(calls))
	}
}

func TestStatsString(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  string
	}{
		{"unlimited", Stats{LiveBytes: 2048, PeakBytes: 4096}, "Resources[0 live, 2 KB, peak 4 KB, budget unlimited]"},
		{"budget", Stats{LiveBytes: 512, PeakBytes: 512, BudgetBytes: 1024}, "budget 50.0% of 1 KB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.String(); !strings.Contains(got, tt.want) {
				t.Errorf("String() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestCountingReset(t *testing.T) {
	c := NewCounting(WithBudget(10))
	c.DidCreate(rhi.ResourceEvent{ID: 1, SizeBytes: 5})
	c.Reset()
	if s := c.Stats(); s.Live() != 0 || s.BudgetBytes != 10 {
		t.Errorf("stats after reset = %+v", s)
	}
	c.DidDestroy(rhi.ResourceEvent{ID: 1})
	if s := c.Stats(); s.Unmatched != 1 {
		t.Errorf("Unmatched = %d, want 1", s.Unmatched)
	}
}

func TestCountingConcurrent(t *testing.T) {
	c := NewCounting()
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				id := uint64(g*1000 + i)
				c.DidCreate(rhi.ResourceEvent{ID: id, Kind: rhi.ResourceBuffer, SizeBytes: 1})
				c.DidDestroy(rhi.ResourceEvent{ID: id})
			}
		}()
	}
	wg.Wait()
	s := c.Stats()
	if s.Live() != 0 || s.Kinds[rhi.ResourceBuffer].Created != 800 || s.LiveBytes != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestMulti(t *testing.T) {
	a, b := NewCounting(), NewCounting()
	m := Multi(a, nil, b, Logging())
	m.DidCreate(rhi.ResourceEvent{ID: 1, Kind: rhi.ResourceFramebuffer})
	m.DidDestroy(rhi.ResourceEvent{ID: 1, Kind: rhi.ResourceFramebuffer})
	for i, c := range []*Counting{a, b} {
		if k := c.Stats().Kinds[rhi.ResourceFramebuffer]; k.Created != 1 || k.Destroyed != 1 {
			t.Errorf("tracker %d: %+v", i, k)
		}
	}
}

type panicking struct{}

func (panicking) DidCreate(rhi.ResourceEvent)  { panic("create") }
func (panicking) DidDestroy(rhi.ResourceEvent) { panic("destroy") }

func TestMultiIsolatesPanics(t *testing.T) {
	c := NewCounting()
	m := Multi(panicking{}, c)
	m.DidCreate(rhi.ResourceEvent{ID: 7, Kind: rhi.ResourceBuffer, SizeBytes: 64})
	m.DidDestroy(rhi.ResourceEvent{ID: 7, Kind: rhi.ResourceBuffer, SizeBytes: 64})
	k := c.Stats().Kinds[rhi.ResourceBuffer]
	if k.Created != 1 || k.Destroyed != 1 {
		t.Errorf("stats after panicking member = %+v", k)
	}
}
