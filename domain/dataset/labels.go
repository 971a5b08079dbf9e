package dataset

import (
	"sort"
	"strconv"
)

// SortLabels orders category labels in place: numerically when every label
// parses as a number, lexically otherwise
func SortLabels(labels []string) {
	nums := make([]float64, len(labels))
	numeric := true
	for i, l := range labels {
		f, err := strconv.ParseFloat(l, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[i] = f
	}

	if !numeric {
		sort.Strings(labels)
		return
	}
	sort.Sort(byNumber{labels: labels, nums: nums})
}

type byNumber struct {
	labels []string
	nums   []float64
}

func (b byNumber) Len() int { return len(b.labels) }

func (b byNumber) Less(i, j int) bool {
	if b.nums[i] != b.nums[j] {
		return b.nums[i] < b.nums[j]
	}
	return b.labels[i] < b.labels[j]
}

func (b byNumber) Swap(i, j int) {
	b.labels[i], b.labels[j] = b.labels[j], b.labels[i]
	b.nums[i], b.nums[j] = b.nums[j], b.nums[i]
}
