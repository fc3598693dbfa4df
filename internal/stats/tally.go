package stats

import (
	"sort"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	"github.com/shopspring/decimal"
)

// tally folds a stream of events into the counters of one StatsResult.
type tally struct {
	total int64

	users     map[string]struct{}
	anonymous bool

	paths  map[string]int64
	noPath int64
}

func newTally() *tally {
	return &tally{
		users: make(map[string]struct{}),
		paths: make(map[string]int64),
	}
}

func (t *tally) add(evt *v1.Event) {
	t.total++

	if evt.UserID == nil {
		t.anonymous = true
	} else {
		t.users[*evt.UserID] = struct{}{}
	}

	if evt.Path == nil {
		t.noPath++
	} else {
		t.paths[*evt.Path]++
	}
}

// uniqueUsers counts every absent user id as one shared visitor.
func (t *tally) uniqueUsers() int64 {
	n := int64(len(t.users))
	if t.anonymous {
		n++
	}
	return n
}

func (t *tally) viewsPerUser() decimal.Decimal {
	users := t.uniqueUsers()
	if users == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(t.total).Div(decimal.NewFromInt(users)).Round(2)
}

// topPaths ranks paths by views descending, then path ascending with the
// no-path group after every named path of equal views.
func (t *tally) topPaths(limit int) []v1.TopPath {
	ranked := make([]v1.TopPath, 0, len(t.paths)+1)
	for path, views := range t.paths {
		p := path
		ranked = append(ranked, v1.TopPath{Path: &p, Views: views})
	}
	if t.noPath > 0 {
		ranked = append(ranked, v1.TopPath{Path: nil, Views: t.noPath})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Views != b.Views {
			return a.Views > b.Views
		}
		if a.Path == nil || b.Path == nil {
			return b.Path == nil && a.Path != nil
		}
		return *a.Path < *b.Path
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
