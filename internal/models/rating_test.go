package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingHistogramAverage(t *testing.T) {
	t.Run("empty histogram averages to zero", func(t *testing.T) {
		var h RatingHistogram
		assert.Equal(t, int64(0), h.Count())
		assert.Equal(t, 0.0, h.Average())
	})

	t.Run("two fives and a three", func(t *testing.T) {
		// {5:2, 3:1} => count 3, average round(13/3, 1) = 4.3
		h := RatingHistogram{0, 0, 1, 0, 2}
		assert.Equal(t, int64(3), h.Count())
		assert.Equal(t, 4.3, h.Average())
	})

	t.Run("single rating is exact", func(t *testing.T) {
		for v := 1; v <= 5; v++ {
			var h RatingHistogram
			h[v-1] = 1
			assert.Equal(t, float64(v), h.Average())
		}
	})

	t.Run("average stays within 1 and 5", func(t *testing.T) {
		cases := []RatingHistogram{
			{100, 0, 0, 0, 0},
			{0, 0, 0, 0, 100},
			{1, 1, 1, 1, 1},
			{7, 0, 3, 0, 12},
		}
		for _, h := range cases {
			avg := h.Average()
			assert.GreaterOrEqual(t, avg, 1.0)
			assert.LessOrEqual(t, avg, 5.0)
		}
	})

	t.Run("rounded to one decimal", func(t *testing.T) {
		// 1+2 = 3 events, sum 1*1+2*2 = 5, 5/3 = 1.666... => 1.7
		h := RatingHistogram{1, 2, 0, 0, 0}
		assert.Equal(t, 1.7, h.Average())
	})
}

func TestRatingHistogramSummarize(t *testing.T) {
	h := RatingHistogram{0, 1, 0, 2, 2}
	s := h.Summarize()
	assert.Equal(t, h, s.Histogram)
	assert.Equal(t, h.Count(), s.Count)
	assert.Equal(t, h.Average(), s.Average)
}
