// Package scorer computes the two article rankings: a static quality
// score from source reputation and content completeness, and a
// time-decayed hot score driven by engagement.
package scorer

import (
	"math"
	"strings"
	"time"

	"fastinfo/internal/domain/entity"
)

// sourceWeights reflects source reliability. Unknown sources get
// defaultSourceWeight.
var sourceWeights = map[string]int{
	"GitHub Trending": 10,
	"Hacker News":     10,
	"arXiv":           10,
	"Dev.to":          8,
	"掘金":              7,
	"V2EX":            7,
	"少数派":             8,
	"IT之家":            6,
	"36氪":             6,
	"AIBase":          7,
	"Product Hunt":    8,
	"机器之心":            8,
	"HuggingFace":     9,
	"NewsNow":         5,
}

const defaultSourceWeight = 5

// clickbaitKeywords mark low quality titles. Matching is
// case-insensitive substring containment.
var clickbaitKeywords = []string{
	"震惊", "必看", "火爆", "疯传", "刷屏",
	"惊呆", "炸了", "轰动", "必读", "速看",
	"shocking", "unbelievable", "you won't believe",
}

// QualityScore rates an article 0..100: base 50 plus source weight,
// title and summary completeness, engagement tiers, and author
// presence, minus a clickbait penalty.
func QualityScore(a *entity.Article) int {
	score := 50

	if w, ok := sourceWeights[a.Source]; ok {
		score += w
	} else {
		score += defaultSourceWeight
	}

	if a.Title != "" {
		lower := strings.ToLower(a.Title)
		for _, kw := range clickbaitKeywords {
			if strings.Contains(lower, kw) {
				score -= 20
				break
			}
		}
		if n := len([]rune(a.Title)); n >= 10 && n <= 100 {
			score += 5
		}
	}

	if n := len([]rune(a.Summary)); n > 50 {
		score += 10
	} else if n > 20 {
		score += 5
	}

	switch {
	case a.Likes > 500:
		score += 10
	case a.Likes > 100:
		score += 8
	case a.Likes > 50:
		score += 5
	case a.Likes > 10:
		score += 3
	}

	switch {
	case a.Comments > 100:
		score += 10
	case a.Comments > 20:
		score += 6
	case a.Comments > 5:
		score += 3
	}

	switch {
	case a.Views > 10000:
		score += 5
	case a.Views > 1000:
		score += 3
	case a.Views > 100:
		score += 1
	}

	if strings.TrimSpace(a.Author) != "" {
		score += 5
	}

	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// HotScore applies gravity-style time decay to raw engagement:
//
//	(likes*2 + views*0.01 + comments*5) / (ageHours + 2)^1.8
//
// Age is measured from published_at, falling back to crawled_at, to
// now. The result is rounded to two decimals and never negative.
func HotScore(a *entity.Article, now time.Time) float64 {
	ageHours := now.Sub(a.EffectivePublishedAt()).Hours()
	if ageHours < 0 {
		ageHours = 0
	}

	raw := float64(a.Likes)*2 + float64(a.Views)*0.01 + float64(a.Comments)*5
	hot := raw / math.Pow(ageHours+2, 1.8)

	return math.Round(hot*100) / 100
}

// Score fills both scores on the article.
func Score(a *entity.Article, now time.Time) {
	a.QualityScore = QualityScore(a)
	a.HotScore = HotScore(a, now)
}
