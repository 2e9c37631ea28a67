package reconcile

import "time"

// monthWindow is one calendar month of the lookback scan.
type monthWindow struct {
	From time.Time
	To   time.Time
}

// monthWindows returns the rolling lookback months ending at now, newest
// first, one window per distinct calendar month. Re-scanning the recent
// months every run is what catches late-arriving and backfilled documents.
func monthWindows(now time.Time, lookback int) []monthWindow {
	if lookback < 1 {
		lookback = 1
	}

	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	seen := make(map[time.Time]struct{}, lookback)
	windows := make([]monthWindow, 0, lookback)

	for i := 0; i < lookback; i++ {
		first := base.AddDate(0, -i, 0)
		if _, dup := seen[first]; dup {
			continue
		}

		seen[first] = struct{}{}

		windows = append(windows, monthWindow{
			From: first,
			To:   first.AddDate(0, 1, -1),
		})
	}

	return windows
}
