package models

import "math"

// RatingHistogram counts rating events per value. Index i holds the number
// of (i+1)-star ratings, so the fixed key set 1..5 is total by construction.
type RatingHistogram [5]int64

// RatingSummary is the denormalized rating state stored on a post. Average
// and Count are always derivable from the histogram; they are stored so the
// trending feed can read them without recomputation, and rewritten after
// every histogram mutation.
type RatingSummary struct {
	Histogram RatingHistogram `json:"histogram" bson:"histogram"`
	Average   float64         `json:"average" bson:"average"`
	Count     int64           `json:"count" bson:"count"`
}

// Count returns the total number of rating events in the histogram.
func (h RatingHistogram) Count() int64 {
	var n int64
	for _, v := range h {
		n += v
	}
	return n
}

// Average returns the mean rating rounded to 1 decimal, or 0 for an empty
// histogram. Once any rating exists the result lies in [1.0, 5.0].
func (h RatingHistogram) Average() float64 {
	n := h.Count()
	if n == 0 {
		return 0
	}
	var sum int64
	for i, v := range h {
		sum += int64(i+1) * v
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

// Summarize rebuilds the derived average/count pair from the histogram.
func (h RatingHistogram) Summarize() RatingSummary {
	return RatingSummary{
		Histogram: h,
		Average:   h.Average(),
		Count:     h.Count(),
	}
}

// RatingResult is returned to callers after a rating is recorded.
type RatingResult struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
