package analyzer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/relscope/relscope/internal/domain"
)

var wordPattern = regexp.MustCompile(`\w+`)

// jaccardThreshold is the minimum title-word similarity for an incident
// to join an existing group.
const jaccardThreshold = 0.5

// issueGroup collects incidents with similar titles
type issueGroup struct {
	words     map[string]struct{}
	incidents []domain.Incident
}

// KeyIssues groups incidents by title-word Jaccard similarity and
// returns groups with at least two members, sorted by frequency and
// severity rank descending.
//
// Grouping is greedy and single-pass: each incident joins the most
// similar existing group above the threshold, else starts its own.
// Direct assignment never crosses the pairwise threshold, though
// chained growth of a group can.
func (a *Analyzer) KeyIssues(incidents []domain.Incident) []domain.KeyIssue {
	var groups []*issueGroup

	for _, inc := range incidents {
		words := titleWords(inc.Title)

		var best *issueGroup
		bestScore := jaccardThreshold
		for _, g := range groups {
			score := jaccard(words, g.words)
			if score > bestScore {
				bestScore = score
				best = g
			}
		}

		if best != nil {
			best.incidents = append(best.incidents, inc)
		} else {
			groups = append(groups, &issueGroup{words: words, incidents: []domain.Incident{inc}})
		}
	}

	var issues []domain.KeyIssue
	for _, g := range groups {
		if len(g.incidents) < 2 {
			continue
		}
		first := g.incidents[0]
		issue := domain.KeyIssue{
			Title:     first.Title,
			Frequency: len(g.incidents),
			Category:  a.Categorize(first),
			Severity:  a.DetectSeverity(first),
		}
		for _, inc := range g.incidents {
			if inc.Date.After(issue.LastOccurrence) {
				issue.LastOccurrence = inc.Date
			}
		}
		issues = append(issues, issue)
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Frequency != issues[j].Frequency {
			return issues[i].Frequency > issues[j].Frequency
		}
		return issues[i].Severity.Rank() > issues[j].Severity.Rank()
	})
	return issues
}

func titleWords(title string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(title), -1) {
		words[w] = struct{}{}
	}
	return words
}

// jaccard computes |a∩b| / |a∪b|; two empty sets score 0.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
