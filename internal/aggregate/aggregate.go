package aggregate

import "math"

// DaysInWeek is the number of day slots a plan week always has.
const DaysInWeek = 7

// GroupByDay buckets items by their day number. Every day 1..dayCount is present
// in the result, even when no item falls on it. Items outside that range are ignored.
func GroupByDay[T any](items []T, dayOf func(T) int, dayCount int) map[int][]T {
	if dayCount <= 0 {
		dayCount = DaysInWeek
	}

	day2items := make(map[int][]T, dayCount)
	for day := 1; day <= dayCount; day++ {
		day2items[day] = []T{}
	}

	for _, item := range items {
		day := dayOf(item)
		if day < 1 || day > dayCount {
			continue
		}
		day2items[day] = append(day2items[day], item)
	}

	return day2items
}

// Flatten returns the items of a day grouping in day order.
func Flatten[T any](day2items map[int][]T, dayCount int) []T {
	if dayCount <= 0 {
		dayCount = DaysInWeek
	}
	var all []T
	for day := 1; day <= dayCount; day++ {
		all = append(all, day2items[day]...)
	}
	return all
}

// Group is one bucket of a type grouping.
type Group[K ~string, T any] struct {
	Key   K
	Items []T
}

// Groups is an ordered type grouping.
type Groups[K ~string, T any] []Group[K, T]

// NonEmpty drops groups without items, keeping the order.
func (g Groups[K, T]) NonEmpty() Groups[K, T] {
	out := make(Groups[K, T], 0, len(g))
	for _, group := range g {
		if len(group.Items) > 0 {
			out = append(out, group)
		}
	}
	return out
}

// GroupByType buckets items by type, following the caller supplied order.
// Each key in order gets a group (possibly empty). Items whose type is not in
// order land in the other bucket, which is appended last when it is not empty.
func GroupByType[K ~string, T any](items []T, typeOf func(T) K, order []K, other K) Groups[K, T] {
	groups := make(Groups[K, T], 0, len(order)+1)
	index := make(map[K]int, len(order)+1)
	for _, key := range order {
		if _, dup := index[key]; dup {
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group[K, T]{Key: key, Items: []T{}})
	}

	var others []T
	for _, item := range items {
		key := typeOf(item)
		if i, ok := index[key]; ok {
			groups[i].Items = append(groups[i].Items, item)
			continue
		}
		if i, ok := index[other]; ok {
			groups[i].Items = append(groups[i].Items, item)
			continue
		}
		others = append(others, item)
	}

	if len(others) > 0 {
		groups = append(groups, Group[K, T]{Key: other, Items: others})
	}

	return groups
}

// Progress is a completion summary. Percentage keeps full float precision.
type Progress struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Rounded returns the percentage rounded for display.
func (p Progress) Rounded() int {
	return int(math.Round(p.Percentage))
}

// Add merges two progress summaries.
func (p Progress) Add(o Progress) Progress {
	return NewProgress(p.Completed+o.Completed, p.Total+o.Total)
}

// NewProgress builds a Progress, defining the percentage as 0 when total is 0.
func NewProgress(completed, total int) Progress {
	p := Progress{Completed: completed, Total: total}
	if total > 0 {
		p.Percentage = float64(completed) / float64(total) * 100
	}
	return p
}

// ComputeProgress counts the items for which done reports true.
func ComputeProgress[T any](items []T, done func(T) bool) Progress {
	completed := 0
	for _, item := range items {
		if done(item) {
			completed++
		}
	}
	return NewProgress(completed, len(items))
}
