package shock

import (
	"math"
	"testing"
	"time"
)

func TestTrackerSpatialGrouping(t *testing.T) {
	tr := NewTracker(10, DefaultLifetime, 1)
	now := time.Now()

	// Two transitions within half the grouping distance share a bucket.
	tr.Report(98, SupersonicEntry, now)
	tr.Report(102, SupersonicEntry, now)

	if got := tr.BucketCount(); got != 1 {
		t.Fatalf("expected 1 bucket, got %d", got)
	}
	markers := tr.ActiveMarkers(now)
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	if markers[0].Pos != 100 {
		t.Errorf("expected bucket center 100, got %g", markers[0].Pos)
	}
}

func TestTrackerBucketExpiry(t *testing.T) {
	tr := NewTracker(10, 300*time.Millisecond, 1)
	now := time.Now()

	tr.Report(50, SubsonicEntry, now)

	if got := tr.ActiveMarkers(now.Add(299 * time.Millisecond)); len(got) != 1 {
		t.Fatalf("marker missing just before expiry: %d", len(got))
	}
	if got := tr.ActiveMarkers(now.Add(300 * time.Millisecond)); len(got) != 0 {
		t.Errorf("marker survived past lifetime: %d", len(got))
	}

	tr.PruneExpired(now.Add(300 * time.Millisecond))
	if got := tr.BucketCount(); got != 0 {
		t.Errorf("bucket not deleted: %d remain", got)
	}
}

func TestTrackerRefreshExtendsBucket(t *testing.T) {
	tr := NewTracker(10, 300*time.Millisecond, 1)
	now := time.Now()

	tr.Report(50, SupersonicEntry, now)
	tr.Report(50, SupersonicEntry, now.Add(200*time.Millisecond))

	// The bucket's lifetime tracks its newest event.
	later := now.Add(400 * time.Millisecond)
	tr.PruneExpired(later)
	if got := tr.BucketCount(); got != 1 {
		t.Fatalf("refreshed bucket expired early")
	}
	if got := tr.ActiveMarkers(later); len(got) != 1 {
		t.Errorf("expected refreshed marker, got %d", len(got))
	}
}

func TestTrackerOpacityDecay(t *testing.T) {
	tr := NewTracker(10, 300*time.Millisecond, 1)
	now := time.Now()

	tr.Report(50, SupersonicEntry, now)

	markers := tr.ActiveMarkers(now.Add(150 * time.Millisecond))
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	if math.Abs(markers[0].Opacity-0.5) > 1e-9 {
		t.Errorf("expected opacity 0.5 at half lifetime, got %g", markers[0].Opacity)
	}
}

func TestTrackerThreshold(t *testing.T) {
	tr := NewTracker(10, DefaultLifetime, 3)
	now := time.Now()

	tr.Report(50, SupersonicEntry, now)
	tr.Report(50, SupersonicEntry, now)
	if got := tr.ActiveMarkers(now); len(got) != 0 {
		t.Fatalf("marker shown below threshold")
	}

	tr.Report(50, SupersonicEntry, now)
	if got := tr.ActiveMarkers(now); len(got) != 1 {
		t.Errorf("marker missing at threshold")
	}
}

func TestTrackerDominantDirection(t *testing.T) {
	tr := NewTracker(10, DefaultLifetime, 1)
	now := time.Now()

	tr.Report(50, SubsonicEntry, now)
	tr.Report(50, SubsonicEntry, now)
	tr.Report(50, SupersonicEntry, now)

	markers := tr.ActiveMarkers(now)
	if len(markers) != 1 || markers[0].Dir != SubsonicEntry {
		t.Fatalf("expected dominant subsonic-entry, got %+v", markers)
	}

	// Ties favor supersonic entry.
	tr2 := NewTracker(10, DefaultLifetime, 1)
	tr2.Report(50, SubsonicEntry, now)
	tr2.Report(50, SupersonicEntry, now)
	markers = tr2.ActiveMarkers(now)
	if len(markers) != 1 || markers[0].Dir != SupersonicEntry {
		t.Fatalf("expected tie to favor supersonic-entry, got %+v", markers)
	}
}

func TestTrackerEventCap(t *testing.T) {
	tr := NewTracker(10, time.Hour, 1)
	now := time.Now()

	// Flood one bucket far past the cap; the tracker must stay bounded
	// and the marker must still resolve from the newest entries.
	for i := 0; i < 500; i++ {
		tr.Report(50, SupersonicEntry, now.Add(time.Duration(i)*time.Millisecond))
	}
	markers := tr.ActiveMarkers(now.Add(500 * time.Millisecond))
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	if markers[0].Dir != SupersonicEntry {
		t.Errorf("unexpected direction %v", markers[0].Dir)
	}
}

func TestTrackerSortedMarkers(t *testing.T) {
	tr := NewTracker(10, DefaultLifetime, 1)
	now := time.Now()

	tr.Report(300, SupersonicEntry, now)
	tr.Report(100, SubsonicEntry, now)
	tr.Report(200, SupersonicEntry, now)

	markers := tr.ActiveMarkers(now)
	if len(markers) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(markers))
	}
	for i := 1; i < len(markers); i++ {
		if markers[i].Pos < markers[i-1].Pos {
			t.Fatalf("markers not sorted: %+v", markers)
		}
	}
}
