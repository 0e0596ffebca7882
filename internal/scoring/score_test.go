package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPopularity(t *testing.T) {
	t.Run("documented scenario", func(t *testing.T) {
		// 3*2 + 2*3 + 4*1.5 + 50*0.1 + 4.5*20 = 113
		s := EngagementSnapshot{
			Likes:         3,
			Saves:         2,
			Comments:      4,
			Views:         50,
			RatingAverage: 4.5,
		}
		assert.Equal(t, 113.0, Popularity(s))
	})

	t.Run("empty snapshot scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Popularity(EngagementSnapshot{}))
	})

	t.Run("monotonic in each signal", func(t *testing.T) {
		base := EngagementSnapshot{Likes: 3, Saves: 2, Comments: 4, Views: 50, RatingAverage: 4.5}
		baseScore := Popularity(base)

		bumps := map[string]EngagementSnapshot{
			"likes":    {Likes: 4, Saves: 2, Comments: 4, Views: 50, RatingAverage: 4.5},
			"saves":    {Likes: 3, Saves: 3, Comments: 4, Views: 50, RatingAverage: 4.5},
			"comments": {Likes: 3, Saves: 2, Comments: 5, Views: 50, RatingAverage: 4.5},
			"views":    {Likes: 3, Saves: 2, Comments: 4, Views: 51, RatingAverage: 4.5},
			"rating":   {Likes: 3, Saves: 2, Comments: 4, Views: 50, RatingAverage: 4.6},
		}
		for name, s := range bumps {
			assert.Greater(t, Popularity(s), baseScore, "bumping %s must raise the score", name)
		}
	})
}

func TestTrending(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("fresh post keeps its popularity score", func(t *testing.T) {
		s := EngagementSnapshot{Likes: 3, Saves: 2, Comments: 4, Views: 50, RatingAverage: 4.5, PublishedAt: now}
		assert.Equal(t, 113.0, Trending(s, now))
	})

	t.Run("strictly decays with age", func(t *testing.T) {
		s := EngagementSnapshot{Likes: 10, PublishedAt: now}
		prev := Trending(s, now)
		for _, age := range []time.Duration{time.Hour, 24 * time.Hour, 72 * time.Hour, 30 * 24 * time.Hour} {
			s.PublishedAt = now.Add(-age)
			cur := Trending(s, now)
			assert.Less(t, cur, prev, "score must keep dropping at age %v", age)
			prev = cur
		}
	})

	t.Run("one day old halves the score", func(t *testing.T) {
		s := EngagementSnapshot{Likes: 10, PublishedAt: now.Add(-24 * time.Hour)}
		assert.InDelta(t, 10.0, Trending(s, now), 1e-9)
	})

	t.Run("future publish date counts as age zero", func(t *testing.T) {
		s := EngagementSnapshot{Likes: 10, PublishedAt: now.Add(time.Hour)}
		assert.Equal(t, 20.0, Trending(s, now))
	})
}

func TestRank(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("orders by trending score descending", func(t *testing.T) {
		candidates := []Candidate{
			{ID: "old-popular", Snapshot: EngagementSnapshot{Likes: 50, PublishedAt: now.Add(-10 * 24 * time.Hour)}},
			{ID: "fresh-modest", Snapshot: EngagementSnapshot{Likes: 20, PublishedAt: now}},
			{ID: "dead", Snapshot: EngagementSnapshot{PublishedAt: now}},
		}
		ranked := Rank(candidates, now)
		assert.Equal(t, "fresh-modest", ranked[0].ID) // 40 vs 100/11
		assert.Equal(t, "old-popular", ranked[1].ID)
		assert.Equal(t, "dead", ranked[2].ID)
	})

	t.Run("ties break by ID ascending", func(t *testing.T) {
		same := EngagementSnapshot{Likes: 5, PublishedAt: now}
		ranked := Rank([]Candidate{
			{ID: "b", Snapshot: same},
			{ID: "a", Snapshot: same},
			{ID: "c", Snapshot: same},
		}, now)
		assert.Equal(t, []string{"a", "b", "c"}, []string{ranked[0].ID, ranked[1].ID, ranked[2].ID})
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Rank(nil, now))
	})
}

func TestReadingTimeMinutes(t *testing.T) {
	assert.Equal(t, 0, ReadingTimeMinutes(""))
	assert.Equal(t, 0, ReadingTimeMinutes("   \n\t "))
	assert.Equal(t, 1, ReadingTimeMinutes("just a few words"))
	assert.Equal(t, 1, ReadingTimeMinutes(words(200)))
	assert.Equal(t, 2, ReadingTimeMinutes(words(201)))
	assert.Equal(t, 3, ReadingTimeMinutes(words(500)))
}

func words(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += "word "
	}
	return out
}
