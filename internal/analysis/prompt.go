package analysis

import (
	"fmt"
	"strings"

	"frameworks/api_lookout/pkg/models"
)

const digestHeaderCount = 10

// FormatDigest renders ranked candidates into the text block the
// summarization prompt embeds: a top-N header followed by per-source
// sections carrying each candidate's score breakdown.
func FormatDigest(ranked []models.ScoredCandidate) string {
	var sections []string

	top := ranked
	if len(top) > digestHeaderCount {
		top = top[:digestHeaderCount]
	}
	sections = append(sections, "=== TOP RANKED TRENDS (weighted scores) ===")
	for i, t := range top {
		title := t.Title
		suffix := ""
		if len(title) > 80 {
			title = title[:80]
			suffix = "..."
		}
		sections = append(sections, fmt.Sprintf("%d. [Score: %d] %s%s", i+1, t.FinalScore, title, suffix))
	}
	sections = append(sections, "", "Full data by source:", "")

	groups, order := groupBySource(ranked)
	for _, group := range order {
		sections = append(sections, fmt.Sprintf("=== %s ===", strings.ToUpper(group)))
		for _, t := range groups[group] {
			b := t.Breakdown
			entry := fmt.Sprintf("[%s] %s\n  Score: %d (base: %.0f, tier: %gx, author: %gx, velocity: %gx, keywords: %gx)",
				t.Source, t.Title, t.FinalScore,
				b.BaseEngagement, b.SourceTierMultiplier, b.AuthorBoost, b.VelocityMultiplier, b.KeywordBoost)
			if t.Author != "" {
				entry += fmt.Sprintf("\n  Author: @%s", t.Author)
			}
			if t.URL != "" {
				entry += fmt.Sprintf("\n  URL: %s", t.URL)
			}
			sections = append(sections, entry)
		}
		sections = append(sections, "")
	}

	return strings.Join(sections, "\n")
}

// groupBySource buckets candidates for readability: all subreddits
// collapse to one Reddit section and the publication feeds to one
// News & Blogs section. Insertion order is preserved.
func groupBySource(ranked []models.ScoredCandidate) (map[string][]models.ScoredCandidate, []string) {
	groups := make(map[string][]models.ScoredCandidate)
	var order []string
	for _, t := range ranked {
		group := sourceGroup(t.Source)
		if _, ok := groups[group]; !ok {
			order = append(order, group)
		}
		groups[group] = append(groups[group], t)
	}
	return groups, order
}

func sourceGroup(source string) string {
	switch {
	case strings.Contains(source, "r/"):
		return "Reddit"
	case strings.Contains(source, "Blog"),
		strings.Contains(source, "TechCrunch"),
		strings.Contains(source, "Verge"),
		strings.Contains(source, "Decoder"):
		return "News & Blogs"
	default:
		return source
	}
}

// platformName maps a content style to the display name used in the
// prompt. The default style is tiktok.
func platformName(style models.ContentStyle) string {
	switch style {
	case models.StyleYouTube:
		return "YouTube"
	case models.StyleLinkedIn:
		return "LinkedIn"
	case models.StyleNewsletter:
		return "Newsletter"
	case models.StyleTwitter:
		return "Twitter/X"
	default:
		return "TikTok"
	}
}

// BuildPrompt assembles the full instruction prompt around the digest.
func BuildPrompt(digest string, opts models.ScanOptions) string {
	style := opts.ContentStyle
	if style == "" {
		style = models.StyleTikTok
	}
	platform := platformName(style)
	stylePrompt := stylePrompts[style]
	if stylePrompt == "" {
		stylePrompt = stylePrompts[models.StyleTikTok]
	}

	topicsFilter := ""
	if len(opts.Topics) > 0 {
		topicsFilter = fmt.Sprintf("\n\nFOCUS AREAS: Prioritize trends related to these topics: %s", strings.Join(opts.Topics, ", "))
	}

	return fmt.Sprintf(`You are an AI trend researcher for %[1]s creators. I have raw data from multiple sources about what's trending in AI.

Your job:
1. Identify the 5 most important/interesting AI trends from this data
2. For each, write a short summary a non-technical person can understand
3. Suggest a %[1]s content angle (hook/take)
4. Write a script optimized for %[1]s. Keep scripts under 100 words.
%[2]s

%[3]s

Raw data:
%[4]s

IMPORTANT: Your final response must be ONLY valid JSON with this exact structure (no markdown code blocks, no explanation before or after):
{
  "trends": [
    {
      "title": "Catchy title here",
      "category": "models|tools|research|drama|tutorials",
      "summary": "2-3 sentences explaining what happened",
      "why_it_matters": "1 sentence for normal people",
      "content_angle": "Short hook idea for %[1]s",
      "script": "Full script optimized for %[1]s (under 100 words)",
      "sources": [{"url": "", "platform": "", "title": ""}],
      "engagement_score": 0-100
    }
  ]
}`, platform, topicsFilter, stylePrompt, digest)
}

var stylePrompts = map[models.ContentStyle]string{
	models.StyleTikTok: `SCRIPT FORMAT (30-45 seconds when read aloud):
- Open with a hook (pattern interrupt, something surprising)
- Explain the story in plain English (no jargon), 2-3 sentences
- Tell them why they should care (make it personal/relatable)
- End with a hot take or question to drive comments

Tone: Casual, like explaining to a friend who's smart but not technical. Slightly irreverent, not corporate.`,

	models.StyleYouTube: `SCRIPT FORMAT (60-90 seconds when read aloud):
- Open with a compelling hook that sets up the story
- Provide context and background (who, what, when)
- Explain the key details with examples
- Discuss implications and why viewers should care
- End with your take and a call to engage (comment, subscribe)

Tone: Informative but conversational. Like a knowledgeable friend breaking down the news.`,

	models.StyleLinkedIn: `SCRIPT FORMAT (LinkedIn post, 150-200 words):
- Open with a thought-provoking observation or statistic
- Explain the business/professional implications
- Provide a balanced analysis with insights
- End with a professional takeaway or question for discussion

Tone: Professional but accessible. Insightful, not sensational. Focus on business impact.`,

	models.StyleTwitter: `SCRIPT FORMAT (Twitter/X thread, 4-6 tweets):
- Tweet 1: Hook that makes people stop scrolling
- Tweets 2-4: Key points, one per tweet, punchy and quotable
- Final tweet: Hot take or question to drive engagement

Tone: Sharp, witty, slightly provocative. Every tweet should stand alone but build a narrative.`,

	models.StyleNewsletter: `SCRIPT FORMAT (Newsletter paragraph, 150-200 words):
- Open with the key news or development
- Explain what happened and why it's significant
- Provide context that helps readers understand the implications
- End with a forward-looking statement or takeaway

Tone: Conversational but informative, like a smart friend catching you up over coffee. Suitable for Substack/Beehiiv style newsletters.`,
}
