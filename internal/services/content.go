package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ContentAnalysis is the spam verdict for one piece of text. The score is a
// clamped sum of independent rule penalties; overlapping rules are allowed to
// double-count on purpose so heavily abusive text saturates quickly.
type ContentAnalysis struct {
	IsSpam     bool     `json:"is_spam"`
	Score      int      `json:"score"`
	Indicators []string `json:"indicators"`
}

// Fixed catalogue of promotional, scam, pharma and gambling phrases.
// Each matching pattern contributes one penalty.
var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bbuy now\b`),
	regexp.MustCompile(`(?i)\bclick here\b`),
	regexp.MustCompile(`(?i)\blimited time\b`),
	regexp.MustCompile(`(?i)\bact now\b`),
	regexp.MustCompile(`(?i)\bfree money\b`),
	regexp.MustCompile(`(?i)\bmake money fast\b`),
	regexp.MustCompile(`(?i)\bwork from home\b`),
	regexp.MustCompile(`(?i)\bearn \$?\d+`),
	regexp.MustCompile(`(?i)\bget rich\b`),
	regexp.MustCompile(`(?i)\bdouble your\b`),
	regexp.MustCompile(`(?i)\bguaranteed (income|returns?)\b`),
	regexp.MustCompile(`(?i)\bno credit check\b`),
	regexp.MustCompile(`(?i)\bcongratulations,? you('ve| have)? won\b`),
	regexp.MustCompile(`(?i)\bclaim your (prize|reward)\b`),
	regexp.MustCompile(`(?i)\bviagra\b`),
	regexp.MustCompile(`(?i)\bcialis\b`),
	regexp.MustCompile(`(?i)\bcheap (pills|meds)\b`),
	regexp.MustCompile(`(?i)\bonline pharmacy\b`),
	regexp.MustCompile(`(?i)\bcasino\b`),
	regexp.MustCompile(`(?i)\bjackpot\b`),
	regexp.MustCompile(`(?i)\blottery winner\b`),
	regexp.MustCompile(`(?i)\bcrypto giveaway\b`),
	regexp.MustCompile(`(?i)\bwire transfer\b`),
	regexp.MustCompile(`(?i)\bwestern union\b`),
}

var urlRegex = regexp.MustCompile(`https?://[^\s]+`)

// Link hosts ending in one of these are treated as throwaway domains.
var suspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq", ".top", ".click", ".loan", ".win"}

// Go's regexp (RE2) has no backreferences, so `(.)\1{4,}` cannot be
// expressed as a pattern; this is its literal equivalent: any character
// repeated 5 or more times in a row.
func hasRepeatedRun(s string) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= 5 {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// Shouting punctuation ("!!!", "?!?") counts as excessive on its own, even in
// text too long for the 30% ratio to trip.
var punctuationRunRegex = regexp.MustCompile(`[!?]{3,}`)

const (
	patternPenalty     = 15
	lengthPenalty      = 20
	capsPenalty        = 25
	punctuationPenalty = 20
	urlCountPenalty    = 30
	urlTLDPenalty      = 25
	repeatPenalty      = 15

	spamThreshold = 50
	maxURLs       = 3
	maxLength     = 5000
)

// ContentScorer is a stateless heuristic spam detector. Analyze is a pure
// function over the input text.
type ContentScorer struct{}

func NewContentScorer() *ContentScorer {
	return &ContentScorer{}
}

// Analyze scores text for spam likelihood. Every triggered rule appends a
// human-readable indicator, in rule-evaluation order.
func (s *ContentScorer) Analyze(text string) ContentAnalysis {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < 2 {
		return ContentAnalysis{
			IsSpam:     true,
			Score:      100,
			Indicators: []string{"Content too short"},
		}
	}

	score := 0
	var indicators []string

	if n := countPatternMatches(text); n > 0 {
		score += patternPenalty * n
		indicators = append(indicators, fmt.Sprintf("Matched %d suspicious patterns", n))
	}

	if len(text) > maxLength {
		score += lengthPenalty
		indicators = append(indicators, "Content excessively long")
	}

	if len(text) > 20 {
		if upperRatio(text) > 0.5 {
			score += capsPenalty
			indicators = append(indicators, "Excessive capitalization")
		}
		if punctuationCount(text) > len(text)*3/10 || punctuationRunRegex.MatchString(text) {
			score += punctuationPenalty
			indicators = append(indicators, "Excessive punctuation")
		}
	}

	urls := urlRegex.FindAllString(text, -1)
	if len(urls) > maxURLs {
		score += urlCountPenalty
		indicators = append(indicators, fmt.Sprintf("Too many links (%d)", len(urls)))
	}
	if tld := firstSuspiciousTLD(urls); tld != "" {
		score += urlTLDPenalty
		indicators = append(indicators, "Suspicious link domain ("+tld+")")
	}

	if hasRepeatedRun(text) {
		score += repeatPenalty
		indicators = append(indicators, "Repeated characters")
	}

	if score > 100 {
		score = 100
	}

	return ContentAnalysis{
		IsSpam:     score >= spamThreshold,
		Score:      score,
		Indicators: indicators,
	}
}

func countPatternMatches(text string) int {
	n := 0
	for _, pattern := range spamPatterns {
		if pattern.MatchString(text) {
			n++
		}
	}
	return n
}

// upperRatio is the share of letters that are uppercase.
func upperRatio(text string) float64 {
	var upper, letters int
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

func punctuationCount(text string) int {
	n := 0
	for _, r := range text {
		if r == '!' || r == '?' || r == '.' {
			n++
		}
	}
	return n
}

// firstSuspiciousTLD returns the first throwaway TLD found across the given
// URLs, or "". Only the first match is reported.
func firstSuspiciousTLD(urls []string) string {
	for _, raw := range urls {
		host := raw
		if idx := strings.Index(host, "://"); idx != -1 {
			host = host[idx+3:]
		}
		if idx := strings.IndexAny(host, "/?#"); idx != -1 {
			host = host[:idx]
		}
		if idx := strings.Index(host, ":"); idx != -1 {
			host = host[:idx]
		}
		host = strings.ToLower(strings.TrimSuffix(host, "."))
		for _, tld := range suspiciousTLDs {
			if strings.HasSuffix(host, tld) {
				return tld
			}
		}
	}
	return ""
}
