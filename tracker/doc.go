// Package tracker provides ResourceTracker implementations for rhi devices.
//
// Counting keeps live resource counts and byte totals per kind and can
// warn when a byte budget is exceeded. Multi fans events out to several
// trackers.
//
//	c := tracker.NewCounting(tracker.WithBudget(512 << 20))
//	dev, err := rhi.OpenBest(rhi.WithResourceTracker(c))
//	...
//	fmt.Println(c.Stats())
package tracker
