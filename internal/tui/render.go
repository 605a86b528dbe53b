package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aaa474/ai-fitness-coach/internal/links"
)

// RenderMarkdown 使用 Glamour 渲染 markdown 文本
// RenderMarkdown renders markdown text using Glamour
func RenderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimRight(rendered, "\n")
}

// RenderLinks 渲染资源链接区块；没有链接时返回空串
// RenderLinks renders the helpful-resources block, empty when no links.
func RenderLinks(items []links.Link, theme Theme, heading string) string {
	if len(items) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.TitleStyle.Render(heading))
	for _, l := range items {
		sb.WriteString("\n  • " + l.Label + " ")
		sb.WriteString(theme.LinkStyle.Render(l.URL))
	}
	return sb.String()
}
