package normalize

import (
	"strings"

	"github.com/foliolab/folio-server/internal/domain"
)

// techKeywords is the fixed technology vocabulary. A tag that contains one
// of these keywords (case-insensitive) maps to the canonical name on the
// left. Ordering here determines ordering in the extracted list.
var techKeywords = []string{
	"React",
	"Next.js",
	"TypeScript",
	"JavaScript",
	"Node.js",
	"Go",
	"Python",
	"Rust",
	"C#",
	"Unity",
	"Unreal Engine",
	"WebGL",
	"Three.js",
	"GLSL",
	"GSAP",
	"Tailwind",
	"Vue",
	"Svelte",
	"After Effects",
	"Premiere Pro",
	"DaVinci Resolve",
	"Blender",
	"Cinema 4D",
	"Figma",
	"Photoshop",
	"Illustrator",
	"InDesign",
}

// ExtractTechnologies returns the canonical technology names whose keyword
// appears in any of the given tags. Matching is a case-insensitive
// substring check, so "react hooks" and "React" both map to "React".
// Keywords of three characters or fewer ("Go", "C#") match only whole
// tokens, otherwise "logo" would count as Go.
func ExtractTechnologies(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	var out []string
	seen := make(map[string]bool, len(techKeywords))
	for _, kw := range techKeywords {
		for _, tag := range tags {
			if matchesKeyword(tag, kw) {
				if !seen[kw] {
					seen[kw] = true
					out = append(out, kw)
				}
				break
			}
		}
	}
	return out
}

func matchesKeyword(tag, kw string) bool {
	tag = strings.ToLower(tag)
	lower := strings.ToLower(kw)
	if len(kw) > 3 {
		return strings.Contains(tag, lower)
	}
	for _, token := range strings.Fields(tag) {
		if token == lower {
			return true
		}
	}
	return false
}

var projectTypeKeywords = []struct {
	kind     domain.ProjectType
	keywords []string
}{
	{domain.ProjectTypeGame, []string{"game", "unity", "unreal"}},
	{domain.ProjectTypePlugin, []string{"plugin", "extension", "addon"}},
	{domain.ProjectTypeTool, []string{"tool", "cli", "utility"}},
	{domain.ProjectTypeWeb, []string{"web", "frontend", "backend", "fullstack"}},
}

// ClassifyProjectType derives the project type for develop items from
// their tags. Defaults to web when nothing matches.
func ClassifyProjectType(tags []string) domain.ProjectType {
	joined := strings.ToLower(strings.Join(tags, " "))
	for _, pt := range projectTypeKeywords {
		for _, kw := range pt.keywords {
			if strings.Contains(joined, kw) {
				return pt.kind
			}
		}
	}
	return domain.ProjectTypeWeb
}

var videoTypeKeywords = []struct {
	kind     domain.VideoType
	keywords []string
}{
	{domain.VideoTypeLyric, []string{"lyric"}},
	{domain.VideoTypeMV, []string{"mv", "music video"}},
	{domain.VideoTypeAnimation, []string{"animation", "anime", "motion"}},
	{domain.VideoTypePromotion, []string{"promotion", "promo", "commercial"}},
}

// ClassifyVideoType derives the video type for video items from their
// tags. Returns the empty string when nothing matches.
func ClassifyVideoType(tags []string) domain.VideoType {
	joined := strings.ToLower(strings.Join(tags, " "))
	for _, vt := range videoTypeKeywords {
		for _, kw := range vt.keywords {
			if strings.Contains(joined, kw) {
				return vt.kind
			}
		}
	}
	return ""
}

var experimentTypeKeywords = []struct {
	kind     domain.ExperimentType
	keywords []string
}{
	{domain.ExperimentTypeWebGL, []string{"webgl", "three.js", "shader", "glsl"}},
	{domain.ExperimentTypeDesign, []string{"design", "graphic"}},
}

// ClassifyExperimentType derives the experiment type for playground items
// from their tags. Returns the empty string when nothing matches.
func ClassifyExperimentType(tags []string) domain.ExperimentType {
	joined := strings.ToLower(strings.Join(tags, " "))
	for _, et := range experimentTypeKeywords {
		for _, kw := range et.keywords {
			if strings.Contains(joined, kw) {
				return et.kind
			}
		}
	}
	return ""
}
