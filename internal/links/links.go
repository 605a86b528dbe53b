package links

import "regexp"

// Link 从 AI 回复文本中提取的资源链接
// Link is a resource link extracted from AI reply text
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// 形如 [label](url) 的 markdown 链接；label 不含 ]，url 以 http(s):// 开头且不含 )
// Markdown link of the form [label](url); label excludes ], url starts with
// http(s):// and excludes )
var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)`)

// Extract 按出现顺序提取全部 markdown 资源链接，重复保留
// Extract returns all markdown resource links in first-appearance order,
// non-overlapping, duplicates preserved. Malformed bracket/paren sequences
// are skipped silently. The scan is stateless: identical input always yields
// identical output.
func Extract(text string) []Link {
	matches := linkPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Link, 0, len(matches))
	for _, m := range matches {
		out = append(out, Link{Label: m[1], URL: m[2]})
	}
	return out
}
