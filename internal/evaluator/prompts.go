package evaluator

import (
	"fmt"
	"strings"
)

// languageInstructions tell the model which language to answer in. JSON keys
// always stay English.
var languageInstructions = map[string]string{
	"pl": "Odpowiedz PO POLSKU (klucze JSON po angielsku, wartości po polsku).",
	"en": "Respond in ENGLISH.",
	"de": "Antworte auf DEUTSCH (JSON-Schlüssel auf Englisch, Werte auf Deutsch).",
	"es": "Responde en ESPAÑOL (claves JSON en inglés, valores en español).",
	"fr": "Répondez en FRANÇAIS (clés JSON en anglais, valeurs en français).",
}

// LanguageInstruction returns the answer-language line for lang, falling back
// to English.
func LanguageInstruction(lang string) string {
	if s, ok := languageInstructions[lang]; ok {
		return s
	}
	return languageInstructions["en"]
}

const jsonOnly = "Return ONLY one valid JSON object. No markdown, no code fences, no commentary."

func contentPrompt(url, lang, pageText string) string {
	return fmt.Sprintf(`%s

You are a senior SEO consultant reviewing one page of a client's website.
Judge content quality honestly and tie every finding to business value.

URL: %s

PAGE CONTENT (markdown):
%s

%s
Structure:
{
  "detected_language": "%s",
  "content_quality_score": 0-100,
  "page_type": "homepage|product|article|service|landing|other",
  "search_intent": {"primary_intent": "informational|transactional|navigational|commercial", "intent_match_score": 0-100, "explanation": "string"},
  "eeat_analysis": {"overall_eeat_score": 0-100, "biggest_eeat_weakness": "string"},
  "content_depth": {"depth_score": 0-100, "depth_level": "superficial|basic|moderate|comprehensive|expert", "readability_assessment": "string"},
  "critical_issues": [{"severity": "critical|high|medium|low", "issue": "string", "impact": "string", "evidence": "string", "fix": "string", "time_to_fix": "string"}],
  "quick_wins": [{"action": "string", "why": "string", "how": "string", "expected_impact": "string"}],
  "overall_summary": "string",
  "primary_recommendation": "string"
}`, LanguageInstruction(lang), url, pageText, jsonOnly, lang)
}

func classifierPrompt(url, lang, pageText string, links []string) string {
	var sb strings.Builder
	for _, link := range links {
		sb.WriteString("- ")
		sb.WriteString(link)
		sb.WriteByte('\n')
	}

	return fmt.Sprintf(`%s

You are a senior SEO strategist studying a website's structure.
From the homepage and its internal links:
1. Detect the website type.
2. Select up to %d ADDITIONAL pages (not the homepage) that represent different templates of the site.

HOMEPAGE: %s

HOMEPAGE CONTENT (markdown):
%s

AVAILABLE INTERNAL LINKS:
%s
Pick pages built from different templates, include at least one content page when available, and
prefer pages that reveal business strategy and conversion paths. Every url must come from the list above.

%s
Structure:
{
  "site_type": "e-commerce|service|blog|corporate|portfolio|news|education|other",
  "site_type_confidence": 0-100,
  "site_characteristics": {"primary_purpose": "string", "target_audience": "string", "monetization_model": "string", "content_focus": "string"},
  "selected_pages": [{"url": "string", "page_type": "category|product|service|about|blog_post|landing|contact|other", "selection_reason": "string", "expected_insights": "string"}]
}`, LanguageInstruction(lang), MaxSelectedPages, url, pageText, sb.String(), jsonOnly)
}

func holisticPrompt(homepageURL, siteType, lang string, pages []pageContext) string {
	var sb strings.Builder
	for i, p := range pages {
		fmt.Fprintf(&sb, "PAGE %d: %s\nType: %s\nSelection reason: %s\nTitle: %s\nMeta description: %s\nH1: %s\nWord count: %d\n",
			i+1, p.URL, p.PageType, p.SelectionReason, p.Title, p.MetaDescription, strings.Join(p.H1, " | "), p.WordCount)
		if p.Text != "" {
			sb.WriteString("Content excerpt:\n")
			sb.WriteString(p.Text)
			sb.WriteByte('\n')
		}
		sb.WriteString("---\n")
	}

	return fmt.Sprintf(`%s

You are a senior SEO and conversion strategist auditing ONE WEBSITE across several pages.
Look for patterns, templates and systemic issues: a fix to one template improves every page built from it.

WEBSITE: %s
WEBSITE TYPE: %s

PAGES:
%s
%s
Structure:
{
  "holistic_score": 0-100,
  "executive_summary": "string",
  "template_insights": [{"template_name": "string", "pages_affected": "string", "critical_issues": ["string"], "seo_impact": "string", "business_impact": "string", "fix_difficulty": "easy|medium|hard", "recommended_fix": "string", "expected_improvement": "string"}],
  "content_patterns": {"strengths": ["string"], "weaknesses": ["string"], "consistency_score": 0-100, "brand_voice_clarity": 0-100, "eeat_signals": {"experience": 0-100, "expertise": 0-100, "authoritativeness": 0-100, "trustworthiness": 0-100, "evidence": ["string"]}},
  "site_strategy": {"primary_business_goal": "string", "target_audience_clarity": 0-100, "value_proposition_strength": 0-100, "competitive_positioning": "string", "content_strategy_assessment": "string", "missing_critical_pages": ["string"]},
  "conversion_funnel": {"funnel_stages_present": ["string"], "funnel_gaps": ["string"], "cta_consistency": 0-100, "cta_effectiveness": "string", "friction_points": ["string"], "quick_conversion_wins": [{"improvement": "string", "pages_affected": "string", "expected_lift": "string", "implementation_time": "string"}]},
  "scalable_recommendations": [{"category": "string", "priority": "critical|high|medium", "recommendation": "string", "scope": "string", "business_impact": "string", "implementation_steps": ["string"], "time_estimate": "string", "owner": "string", "success_metric": "string"}],
  "cross_page_issues": [{"issue": "string", "severity": "critical|high|medium|low", "pages_affected": ["string"], "root_cause": "string", "recommended_solution": "string"}],
  "roadmap": {"week_1": ["string"], "month_1": ["string"], "month_3": ["string"], "ongoing": ["string"]}
}`, LanguageInstruction(lang), homepageURL, siteType, sb.String(), jsonOnly)
}

func actionPlanPrompt(lang, summary string) string {
	return fmt.Sprintf(`%s

You are a senior SEO consultant turning an audit into a prioritized remediation plan.
Order work by impact and effort. Be concrete: name pages, elements and tools.

AUDIT SUMMARY (JSON):
%s

%s
Structure:
{
  "overall_strategy": {"primary_focus": "string", "estimated_time_to_improvement": "string", "difficulty_level": "easy|medium|hard", "required_resources": ["string"]},
  "quick_wins": [{"title": "string", "description": "string", "estimated_time": "string", "expected_impact": "string", "business_impact": "string", "difficulty": "easy|medium|hard", "implementation_steps": ["string"], "tools_needed": ["string"]}],
  "roadmap_30_days": [{"priority": 1, "action": "string", "category": "string", "description": "string", "success_criteria": "string", "estimated_impact": "string", "dependencies": ["string"], "owner": "string"}],
  "roadmap_60_days": [],
  "roadmap_90_days": [],
  "estimated_score_progression": {"current": 0-100, "after_30_days": 0-100, "after_60_days": 0-100, "after_90_days": 0-100, "assumptions": "string"},
  "recommended_tools": [{"tool_name": "string", "purpose": "string", "cost": "string", "priority": "string"}],
  "content_strategy": {"recommended_content_types": ["string"], "keyword_opportunities": ["string"], "content_gaps": ["string"], "competitive_angle": "string"},
  "executive_summary": "string"
}`, LanguageInstruction(lang), summary, jsonOnly)
}
