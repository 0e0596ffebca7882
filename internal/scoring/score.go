// Package scoring holds the pure popularity and trending score math. The
// functions here have no side effects and no persisted state: the same
// counter snapshot always produces the same score, so scores are recomputed
// at read time instead of being stored.
package scoring

import (
	"sort"
	"time"
)

// Signal weights. Saves (deliberate bookmarking) weigh more than likes,
// the rating average is the dominant quality signal, views are weak.
const (
	LikeWeight    = 2.0
	SaveWeight    = 3.0
	CommentWeight = 1.5
	ViewWeight    = 0.1
	RatingWeight  = 20.0
)

const millisPerDay = 86400000

// EngagementSnapshot is the counter state a score is computed from.
type EngagementSnapshot struct {
	Likes         int
	Saves         int
	Comments      int64
	Views         int64
	RatingAverage float64
	PublishedAt   time.Time
}

// Popularity combines the engagement counters into a single score:
//
//	likes*2 + saves*3 + comments*1.5 + views*0.1 + ratingAverage*20
func Popularity(s EngagementSnapshot) float64 {
	return float64(s.Likes)*LikeWeight +
		float64(s.Saves)*SaveWeight +
		float64(s.Comments)*CommentWeight +
		float64(s.Views)*ViewWeight +
		s.RatingAverage*RatingWeight
}

// RecencyDays returns the post age in fractional days at instant now.
// A post published in the future counts as age 0.
func RecencyDays(publishedAt, now time.Time) float64 {
	ms := now.Sub(publishedAt).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return float64(ms) / millisPerDay
}

// Trending applies time decay to the popularity score:
// popularity / (1 + ageInDays). Strictly decreasing in age for any
// positive popularity.
func Trending(s EngagementSnapshot, now time.Time) float64 {
	return Popularity(s) / (1 + RecencyDays(s.PublishedAt, now))
}

// Candidate pairs an opaque identity with its engagement snapshot for
// ranking. ID doubles as the deterministic tiebreak key.
type Candidate struct {
	ID       string
	Snapshot EngagementSnapshot
}

// Ranked is a candidate with its computed scores.
type Ranked struct {
	Candidate
	Popularity float64
	Trending   float64
}

// Rank scores every candidate at instant now and returns them ordered by
// trending score descending. Ties are broken by ID ascending so repeated
// recomputation over the same snapshot yields the same order.
func Rank(candidates []Candidate, now time.Time) []Ranked {
	ranked := make([]Ranked, len(candidates))
	for i, c := range candidates {
		ranked[i] = Ranked{
			Candidate:  c,
			Popularity: Popularity(c.Snapshot),
			Trending:   Trending(c.Snapshot, now),
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Trending != ranked[j].Trending {
			return ranked[i].Trending > ranked[j].Trending
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}
