// Package shock aggregates noisy per-particle Mach transitions into
// stable, time-decaying shock markers. Events are bucketed by quantized
// downstream position; a bucket lives exactly as long as its newest
// event is younger than the lifetime window.
package shock

import (
	"math"
	"sort"
	"time"
)

// Direction classifies a Mach-regime transition.
type Direction int

const (
	SupersonicEntry Direction = iota // crossed Mach 1 upward
	SubsonicEntry                    // crossed Mach 1 downward
)

func (d Direction) String() string {
	if d == SupersonicEntry {
		return "supersonic-entry"
	}
	return "subsonic-entry"
}

const (
	// DefaultGrouping is the spatial bucket width in length units
	// (10 cm at the 100 px/m screen scale).
	DefaultGrouping = 10.0
	// DefaultLifetime is how long a bucket survives after its newest
	// event.
	DefaultLifetime = 300 * time.Millisecond
	// DefaultThreshold is the per-direction event count needed to show
	// a marker. At 1 every transition flashes; raise it to suppress
	// noise.
	DefaultThreshold = 1
	// maxEvents caps each bucket's event list.
	maxEvents = 100
)

type event struct {
	dir Direction
	at  time.Time
}

// Marker is an active shock indicator ready for rendering.
type Marker struct {
	Pos     float64 // bucket center, downstream
	Opacity float64 // 1 fresh, 0 expired
	Dir     Direction
}

// Tracker buckets Mach-transition events spatially and answers which
// markers are currently visible.
type Tracker struct {
	grouping  float64
	lifetime  time.Duration
	threshold int
	buckets   map[int64][]event
}

// NewTracker builds a tracker; zero arguments fall back to the package
// defaults.
func NewTracker(grouping float64, lifetime time.Duration, threshold int) *Tracker {
	if grouping <= 0 {
		grouping = DefaultGrouping
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	return &Tracker{
		grouping:  grouping,
		lifetime:  lifetime,
		threshold: threshold,
		buckets:   make(map[int64][]event),
	}
}

// Report records one Mach transition at the given downstream position.
// The bucket is trimmed to the newest maxEvents entries and to events
// inside the lifetime window.
func (t *Tracker) Report(pos float64, dir Direction, now time.Time) {
	key := t.key(pos)
	evs := append(t.buckets[key], event{dir: dir, at: now})
	if len(evs) > maxEvents {
		evs = evs[len(evs)-maxEvents:]
	}
	cutoff := now.Add(-t.lifetime)
	for len(evs) > 0 && evs[0].at.Before(cutoff) {
		evs = evs[1:]
	}
	t.buckets[key] = evs
}

// PruneExpired drops every bucket that is empty or whose newest event
// has aged past the lifetime window. Call it each tick before reading
// markers so buckets cannot accumulate.
func (t *Tracker) PruneExpired(now time.Time) {
	for key, evs := range t.buckets {
		if len(evs) == 0 || now.Sub(evs[len(evs)-1].at) >= t.lifetime {
			delete(t.buckets, key)
		}
	}
}

// ActiveMarkers returns a marker for every surviving bucket in which
// either direction's event count reaches the threshold. Opacity decays
// linearly with the age of the bucket's newest event; the marker
// direction is whichever dominates, ties favoring supersonic entry.
// Markers are sorted by position for stable rendering.
func (t *Tracker) ActiveMarkers(now time.Time) []Marker {
	markers := make([]Marker, 0, len(t.buckets))
	for key, evs := range t.buckets {
		var super, sub int
		newest := time.Time{}
		for _, e := range evs {
			if e.at.After(newest) {
				newest = e.at
			}
			if e.dir == SupersonicEntry {
				super++
			} else {
				sub++
			}
		}
		if super < t.threshold && sub < t.threshold {
			continue
		}
		age := now.Sub(newest)
		opacity := 1 - float64(age)/float64(t.lifetime)
		if opacity <= 0 {
			continue
		}
		dir := SupersonicEntry
		if sub > super {
			dir = SubsonicEntry
		}
		markers = append(markers, Marker{
			Pos:     float64(key) * t.grouping,
			Opacity: opacity,
			Dir:     dir,
		})
	}
	sort.Slice(markers, func(i, j int) bool { return markers[i].Pos < markers[j].Pos })
	return markers
}

// BucketCount reports how many buckets currently hold events.
func (t *Tracker) BucketCount() int { return len(t.buckets) }

func (t *Tracker) key(pos float64) int64 {
	return int64(math.Round(pos / t.grouping))
}
