package tui

import "github.com/charmbracelet/lipgloss"

// Theme 定义 TUI 主题色彩和样式
// Theme defines TUI colors and styles
type Theme struct {
	// 基础色 / Base colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Danger    lipgloss.Color
	Success   lipgloss.Color
	Muted     lipgloss.Color
	Text      lipgloss.Color
	TextDim   lipgloss.Color
	Border    lipgloss.Color

	// 预构建样式 / Pre-built styles
	TitleStyle       lipgloss.Style
	ActiveTabStyle   lipgloss.Style
	InactiveTabStyle lipgloss.Style
	StatusBarStyle   lipgloss.Style
	PanelStyle       lipgloss.Style
	InputStyle       lipgloss.Style
	LabelStyle       lipgloss.Style
	ErrorStyle       lipgloss.Style
	SuccessStyle     lipgloss.Style
	MutedStyle       lipgloss.Style
	LinkStyle        lipgloss.Style
	BadgeStyle       lipgloss.Style
}

// ThemeByName 按配置名取主题，未知名字回落到暗色
// ThemeByName maps a configured theme name, defaulting to dark.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// DarkTheme 暗色主题（默认）
// DarkTheme is the default dark theme
func DarkTheme() Theme {
	t := Theme{
		Primary:   lipgloss.Color("#3B82F6"),
		Secondary: lipgloss.Color("#06B6D4"),
		Accent:    lipgloss.Color("#F59E0B"),
		Danger:    lipgloss.Color("#EF4444"),
		Success:   lipgloss.Color("#10B981"),
		Muted:     lipgloss.Color("#6B7280"),
		Text:      lipgloss.Color("#E5E7EB"),
		TextDim:   lipgloss.Color("#9CA3AF"),
		Border:    lipgloss.Color("#374151"),
	}
	return buildStyles(t, lipgloss.Color("#111827"))
}

// LightTheme 亮色主题
// LightTheme is the light theme
func LightTheme() Theme {
	t := Theme{
		Primary:   lipgloss.Color("#2563EB"),
		Secondary: lipgloss.Color("#0891B2"),
		Accent:    lipgloss.Color("#D97706"),
		Danger:    lipgloss.Color("#DC2626"),
		Success:   lipgloss.Color("#059669"),
		Muted:     lipgloss.Color("#9CA3AF"),
		Text:      lipgloss.Color("#1F2937"),
		TextDim:   lipgloss.Color("#6B7280"),
		Border:    lipgloss.Color("#D1D5DB"),
	}
	return buildStyles(t, lipgloss.Color("#F3F4F6"))
}

func buildStyles(t Theme, barBg lipgloss.Color) Theme {
	t.TitleStyle = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.ActiveTabStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.Primary).
		Padding(0, 2).
		Bold(true)

	t.InactiveTabStyle = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Padding(0, 2)

	t.StatusBarStyle = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(barBg)

	t.PanelStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	t.InputStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border)

	t.LabelStyle = lipgloss.NewStyle().
		Foreground(t.Secondary)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Danger).
		Bold(true)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.MutedStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.LinkStyle = lipgloss.NewStyle().
		Foreground(t.Secondary).
		Underline(true)

	t.BadgeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.Accent).
		Padding(0, 1)

	return t
}
