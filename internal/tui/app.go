package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aaa474/ai-fitness-coach/internal/api"
	"github.com/aaa474/ai-fitness-coach/internal/chat"
	"github.com/aaa474/ai-fitness-coach/internal/i18n"
	"github.com/aaa474/ai-fitness-coach/internal/links"
	"github.com/aaa474/ai-fitness-coach/internal/plan"
	"github.com/aaa474/ai-fitness-coach/internal/progress"
	"github.com/aaa474/ai-fitness-coach/internal/session"
	"github.com/aaa474/ai-fitness-coach/internal/storage"
)

// PreferenceStore 持久化展示偏好；主题切换后写回
// PreferenceStore persists display preferences across restarts.
type PreferenceStore interface {
	LoadPreferences() (storage.Preferences, error)
	SavePreferences(storage.Preferences) error
}

// --- Tea Messages ---

// AuthResultMsg 登录/注册调用完成
// AuthResultMsg reports a sign-in/sign-up completion
type AuthResultMsg struct{ Err error }

// ChatDoneMsg 一条聊天消息往返完成
// ChatDoneMsg reports a chat round-trip completion
type ChatDoneMsg struct{}

// DailyStateMsg 每日视图刷新完成
// DailyStateMsg carries the refreshed daily view state
type DailyStateMsg struct{ State plan.DailyState }

// AchievementsMsg 成就卡数据
// AchievementsMsg carries XP and badges for the dashboard
type AchievementsMsg struct {
	Summary api.XPSummary
	Err     error
}

// PlanGeneratedMsg 计划生成完成（成功或失败文案都在结果槽里）
// PlanGeneratedMsg reports plan generation; the result slot holds the text
type PlanGeneratedMsg struct{ Err error }

// ProgressSavedMsg 进度提交完成
// ProgressSavedMsg reports a progress submission
type ProgressSavedMsg struct {
	Message string
	Err     error
}

// EntriesMsg 进度查询完成
// EntriesMsg carries the fetched progress entries
type EntriesMsg struct {
	Entries []api.ProgressEntry
	Err     error
}

// TrendMsg 趋势分析完成
// TrendMsg carries the AI trend commentary
type TrendMsg struct{ Text string }

// PlansMsg 历史计划加载完成
// PlansMsg carries the past generated plans
type PlansMsg struct {
	Records []api.PlanRecord
	Err     error
}

// authField 登录表单字段序
const (
	authFieldEmail = iota
	authFieldPassword
)

// App Bubble Tea 主 Model
// App is the main Bubble Tea model
type App struct {
	// 布局 / Layout
	width  int
	height int

	// 依赖 / Wiring
	monitor   *session.Monitor
	chat      *chat.Session
	progress  *progress.Store
	generator *plan.Generator
	daily     *plan.Daily
	router    *Router

	// 当前路由 / Current route
	route session.Route

	// 登录视图 / Auth view
	authInputs []textinput.Model
	authFocus  int
	signUpMode bool
	authError  string

	// 对话视图 / Chat view
	chatInput textarea.Model
	chatView  viewport.Model

	// 目标表单 / Goal form
	formInputs []textinput.Model
	formFocus  int
	formNotice string

	// 每日视图 / Daily view
	dailyState plan.DailyState
	dailyView  viewport.Model

	// 进度视图 / Progress view
	weightInput  textinput.Model
	noteInput    textinput.Model
	progressMsg  string
	entries      []api.ProgressEntry
	rangeDays    int
	trendSummary string

	// 历史计划 / Past plans
	plans     []api.PlanRecord
	plansView viewport.Model

	// 成就 / Achievements
	xp api.XPSummary

	// 状态 / State
	busy bool

	// 配置 / Config
	theme     Theme
	themeName string
	prefs     PreferenceStore
	keys      KeyMap
	locale    *i18n.I18n
}

// formLabels 目标表单字段顺序，与校验顺序无关
var formLabels = []string{
	"form.goal", "form.age", "form.height", "form.weight",
	"form.activity_level", "form.diet_preference",
}

// NewApp 创建 TUI 应用
// NewApp creates a new TUI application
func NewApp(monitor *session.Monitor, chatSession *chat.Session, store *progress.Store,
	generator *plan.Generator, daily *plan.Daily, router *Router,
	prefs PreferenceStore, themeName string) App {

	email := textinput.New()
	email.Placeholder = i18n.T("auth.email")
	email.Focus()
	password := textinput.New()
	password.Placeholder = i18n.T("auth.password")
	password.EchoMode = textinput.EchoPassword

	ta := textarea.New()
	ta.Placeholder = i18n.T("chat.placeholder")
	ta.CharLimit = 4096
	ta.SetHeight(3)

	forms := make([]textinput.Model, len(formLabels))
	for i, label := range formLabels {
		ti := textinput.New()
		ti.Placeholder = i18n.T(label)
		forms[i] = ti
	}
	forms[0].Focus()

	weight := textinput.New()
	weight.Placeholder = i18n.T("progress.weight")
	weight.Focus()
	note := textinput.New()
	note.Placeholder = i18n.T("progress.note")

	return App{
		monitor:     monitor,
		chat:        chatSession,
		progress:    store,
		generator:   generator,
		daily:       daily,
		router:      router,
		route:       session.RouteLanding,
		authInputs:  []textinput.Model{email, password},
		chatInput:   ta,
		formInputs:  forms,
		weightInput: weight,
		noteInput:   note,
		theme:       ThemeByName(themeName),
		themeName:   themeName,
		prefs:       prefs,
		keys:        DefaultKeyMap(),
		locale:      i18n.Global(),
	}
}

func (a App) Init() tea.Cmd {
	return textinput.Blink
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.ToggleTheme):
			return a.toggleTheme()
		case key.Matches(msg, a.keys.SignOut):
			if a.monitor.Session() != nil {
				monitor := a.monitor
				return a, func() tea.Msg {
					_ = monitor.SignOut(context.Background())
					return nil
				}
			}
		}
		return a.updateKeyForRoute(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.relayout()
		return a, nil

	case NavigateMsg:
		return a.enterRoute(msg.To)

	case AuthResultMsg:
		a.busy = false
		if msg.Err != nil {
			a.authError = msg.Err.Error()
		} else {
			a.authError = ""
		}
		return a, nil

	case ChatDoneMsg:
		a.busy = false
		a.refreshChatView()
		return a, nil

	case DailyStateMsg:
		a.busy = false
		a.dailyState = msg.State
		a.refreshDailyView()
		return a, nil

	case AchievementsMsg:
		if msg.Err == nil {
			a.xp = msg.Summary
		}
		return a, nil

	case PlanGeneratedMsg:
		a.busy = false
		a.formNotice = ""
		// 校验失败单独提示；其余情况结果槽里已经是可展示的文案
		if verr, ok := msg.Err.(*api.ValidationError); ok {
			a.formNotice = verr.Message
		}
		return a, nil

	case ProgressSavedMsg:
		a.busy = false
		if verr, ok := msg.Err.(*api.ValidationError); ok {
			a.progressMsg = verr.Message
		} else {
			a.progressMsg = msg.Message
		}
		return a, nil

	case EntriesMsg:
		a.busy = false
		if msg.Err == nil {
			a.entries = msg.Entries
		}
		return a, nil

	case TrendMsg:
		a.busy = false
		a.trendSummary = msg.Text
		return a, nil

	case PlansMsg:
		a.busy = false
		if msg.Err == nil {
			a.plans = msg.Records
		}
		a.refreshPlansView()
		return a, nil
	}

	return a.updateFocusedInput(msg)
}

// toggleTheme 暗/亮主题互换并写回偏好，重启后仍然生效
// toggleTheme flips between the dark and light themes and persists the
// choice so it survives a restart.
func (a App) toggleTheme() (tea.Model, tea.Cmd) {
	if a.themeName == "light" {
		a.themeName = "dark"
	} else {
		a.themeName = "light"
	}
	a.theme = ThemeByName(a.themeName)
	if a.prefs != nil {
		p, err := a.prefs.LoadPreferences()
		if err != nil {
			p = storage.Preferences{}
		}
		p.Theme = a.themeName
		_ = a.prefs.SavePreferences(p)
	}
	a.refreshChatView()
	a.refreshDailyView()
	a.refreshPlansView()
	return a, nil
}

// goTo 应用内发起的跳转走路由器，让会话策略始终看到真实位置；
// 路由器随后把 NavigateMsg 投回事件循环，enterRoute 在那里接手。
// goTo routes app-originated navigation through the Router so the session
// policy always judges against the real location. The Router posts a
// NavigateMsg back into the loop, where enterRoute takes over.
func (a App) goTo(to session.Route) (tea.Model, tea.Cmd) {
	a.router.Navigate(to)
	return a, nil
}

// enterRoute 进入新路由并触发其数据加载
// enterRoute switches routes and kicks off that view's data loads.
func (a App) enterRoute(to session.Route) (tea.Model, tea.Cmd) {
	if a.route == session.RouteDaily && to != session.RouteDaily {
		a.daily.Deactivate()
	}
	a.route = to

	sess := a.monitor.Session()
	switch to {
	case session.RouteDashboard:
		if sess != nil {
			daily, email := a.daily, sess.Email
			return a, func() tea.Msg {
				summary, err := daily.Achievements(context.Background(), email)
				return AchievementsMsg{Summary: summary, Err: err}
			}
		}
	case session.RouteDaily:
		if sess != nil {
			a.busy = true
			daily, email := a.daily, sess.Email
			return a, func() tea.Msg {
				return DailyStateMsg{State: daily.Activate(context.Background(), email)}
			}
		}
	case session.RouteProgress, session.RouteTimeline:
		a.busy = true
		return a, a.queryEntriesCmd(a.rangeDays)
	case session.RoutePlans:
		a.busy = true
		generator := a.generator
		return a, func() tea.Msg {
			records, err := generator.History(context.Background())
			return PlansMsg{Records: records, Err: err}
		}
	}
	return a, nil
}

func (a App) queryEntriesCmd(rangeDays int) tea.Cmd {
	store := a.progress
	return func() tea.Msg {
		entries, err := store.Query(context.Background(), rangeDays)
		return EntriesMsg{Entries: entries, Err: err}
	}
}

// updateKeyForRoute 路由相关的按键处理
func (a App) updateKeyForRoute(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.route {
	case session.RouteLanding:
		return a.goTo(session.RouteAuth)

	case session.RouteAuth:
		return a.updateAuthKey(msg)

	case session.RouteDashboard:
		switch msg.String() {
		case "tab":
			return a.goTo(session.RoutePlanForm)
		case "enter":
			return a.sendChat()
		case "ctrl+n":
			a.chat.Reset()
			a.refreshChatView()
			return a, nil
		}

	case session.RoutePlanForm:
		return a.updatePlanFormKey(msg)

	case session.RouteDaily:
		if msg.String() == "tab" {
			return a.goTo(session.RouteProgress)
		}

	case session.RouteProgress:
		return a.updateProgressKey(msg)

	case session.RouteTimeline:
		if msg.String() == "tab" {
			return a.goTo(session.RoutePlans)
		}

	case session.RoutePlans:
		if msg.String() == "tab" {
			return a.goTo(session.RouteDashboard)
		}
	}
	return a.updateFocusedInput(msg)
}

func (a App) updateAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		a.authFocus = (a.authFocus + 1) % len(a.authInputs)
		for i := range a.authInputs {
			if i == a.authFocus {
				a.authInputs[i].Focus()
			} else {
				a.authInputs[i].Blur()
			}
		}
		return a, nil
	case "ctrl+s":
		a.signUpMode = !a.signUpMode
		a.authError = ""
		return a, nil
	case "ctrl+g":
		a.busy = true
		monitor := a.monitor
		return a, func() tea.Msg {
			return AuthResultMsg{Err: monitor.SignInWithGoogle(context.Background())}
		}
	case "enter":
		email := a.authInputs[authFieldEmail].Value()
		password := a.authInputs[authFieldPassword].Value()
		a.busy = true
		monitor, signUp := a.monitor, a.signUpMode
		return a, func() tea.Msg {
			var err error
			if signUp {
				err = monitor.SignUp(context.Background(), email, password)
			} else {
				err = monitor.SignIn(context.Background(), email, password)
			}
			return AuthResultMsg{Err: err}
		}
	}
	return a.updateFocusedInput(msg)
}

func (a App) updatePlanFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return a.goTo(session.RouteDaily)
	case "down", "up":
		step := 1
		if msg.String() == "up" {
			step = len(a.formInputs) - 1
		}
		a.formInputs[a.formFocus].Blur()
		a.formFocus = (a.formFocus + step) % len(a.formInputs)
		a.formInputs[a.formFocus].Focus()
		return a, nil
	case "ctrl+e":
		generator := a.generator
		return a, func() tea.Msg {
			_ = generator.ExportDocument("fitness-plan.md")
			return nil
		}
	case "enter":
		form := plan.Form{
			Goal:           a.formInputs[0].Value(),
			Age:            a.formInputs[1].Value(),
			Height:         a.formInputs[2].Value(),
			Weight:         a.formInputs[3].Value(),
			ActivityLevel:  a.formInputs[4].Value(),
			DietPreference: a.formInputs[5].Value(),
		}
		a.busy = true
		generator := a.generator
		return a, func() tea.Msg {
			_, err := generator.Generate(context.Background(), form)
			return PlanGeneratedMsg{Err: err}
		}
	}
	return a.updateFocusedInput(msg)
}

func (a App) updateProgressKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return a.goTo(session.RouteTimeline)
	case "down", "up":
		if a.weightInput.Focused() {
			a.weightInput.Blur()
			a.noteInput.Focus()
		} else {
			a.noteInput.Blur()
			a.weightInput.Focus()
		}
		return a, nil
	case "ctrl+r":
		// 切换范围: 全部 -> 7 天 -> 30 天
		switch a.rangeDays {
		case 0:
			a.rangeDays = 7
		case 7:
			a.rangeDays = 30
		default:
			a.rangeDays = 0
		}
		a.busy = true
		return a, a.queryEntriesCmd(a.rangeDays)
	case "ctrl+a":
		a.busy = true
		store, entries := a.progress, a.entries
		return a, func() tea.Msg {
			text, err := store.SummarizeTrend(context.Background(), entries)
			if err != nil {
				text = "Failed to analyze progress."
			}
			return TrendMsg{Text: text}
		}
	case "enter":
		weight, note := a.weightInput.Value(), a.noteInput.Value()
		a.busy = true
		store := a.progress
		return a, func() tea.Msg {
			message, err := store.Submit(context.Background(), weight, note)
			return ProgressSavedMsg{Message: message, Err: err}
		}
	}
	return a.updateFocusedInput(msg)
}

func (a App) sendChat() (tea.Model, tea.Cmd) {
	text := a.chatInput.Value()
	a.chatInput.Reset()
	a.busy = true
	chatSession := a.chat
	cmd := func() tea.Msg {
		_ = chatSession.Send(context.Background(), text)
		return ChatDoneMsg{}
	}
	return a, cmd
}

func (a App) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.route {
	case session.RouteAuth:
		a.authInputs[a.authFocus], cmd = a.authInputs[a.authFocus].Update(msg)
	case session.RouteDashboard:
		a.chatInput, cmd = a.chatInput.Update(msg)
	case session.RoutePlanForm:
		a.formInputs[a.formFocus], cmd = a.formInputs[a.formFocus].Update(msg)
	case session.RouteProgress:
		if a.weightInput.Focused() {
			a.weightInput, cmd = a.weightInput.Update(msg)
		} else {
			a.noteInput, cmd = a.noteInput.Update(msg)
		}
	case session.RouteDaily:
		a.dailyView, cmd = a.dailyView.Update(msg)
	case session.RoutePlans:
		a.plansView, cmd = a.plansView.Update(msg)
	}
	return a, cmd
}

// --- 内部方法 / Internal methods ---

func (a *App) relayout() {
	panelHeight := a.height - 8
	if panelHeight < 3 {
		panelHeight = 3
	}
	a.chatView = viewport.New(a.width, panelHeight)
	a.dailyView = viewport.New(a.width, panelHeight)
	a.plansView = viewport.New(a.width, panelHeight)
	a.chatInput.SetWidth(a.width - 4)
	a.refreshChatView()
	a.refreshDailyView()
	a.refreshPlansView()
}

func (a *App) refreshChatView() {
	var sb strings.Builder
	for _, m := range a.chat.Messages() {
		if m.Sender == chat.SenderUser {
			sb.WriteString(a.theme.LabelStyle.Render("You: ") + m.Text + "\n")
		} else {
			sb.WriteString(RenderMarkdown(m.Text, a.width-2) + "\n")
		}
	}
	if block := RenderLinks(a.chat.Links(), a.theme, a.locale.T("daily.resources")); block != "" {
		sb.WriteString("\n" + block + "\n")
	}
	a.chatView.SetContent(sb.String())
	a.chatView.GotoBottom()
}

func (a *App) refreshDailyView() {
	var sb strings.Builder
	if a.dailyState.CheckinMessage != "" {
		sb.WriteString(a.theme.SuccessStyle.Render(a.dailyState.CheckinMessage) + "\n\n")
	}
	sb.WriteString(RenderMarkdown(a.dailyState.TodayPlan, a.width-2) + "\n")
	if block := RenderLinks(links.Extract(a.dailyState.TodayPlan), a.theme, a.locale.T("daily.resources")); block != "" {
		sb.WriteString("\n" + block + "\n")
	}
	if len(a.dailyState.History) > 0 {
		sb.WriteString("\n" + a.theme.TitleStyle.Render(a.locale.T("daily.history")) + "\n")
		for _, rec := range a.dailyState.History {
			sb.WriteString(a.theme.MutedStyle.Render(rec.Timestamp.Format("2006-01-02")) + "\n")
			sb.WriteString(RenderMarkdown(rec.Plan, a.width-4) + "\n")
		}
	}
	a.dailyView.SetContent(sb.String())
}

func (a *App) refreshPlansView() {
	var sb strings.Builder
	for _, rec := range a.plans {
		sb.WriteString(a.theme.TitleStyle.Render(rec.Timestamp.Format("2006-01-02")) + "\n")
		sb.WriteString(RenderMarkdown(rec.Plan, a.width-2) + "\n\n")
	}
	a.plansView.SetContent(sb.String())
}

// --- 渲染 / Rendering ---

func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}

	var body string
	switch a.route {
	case session.RouteLanding:
		body = a.viewLanding()
	case session.RouteAuth:
		body = a.viewAuth()
	case session.RouteDashboard:
		body = a.viewDashboard()
	case session.RoutePlanForm:
		body = a.viewPlanForm()
	case session.RouteDaily:
		body = a.dailyView.View()
	case session.RouteProgress:
		body = a.viewProgress()
	case session.RouteTimeline:
		body = a.viewTimeline()
	case session.RoutePlans:
		body = a.plansView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderTabs(), body, a.renderStatusBar())
}

func (a App) viewLanding() string {
	title := a.theme.TitleStyle.Render("AI Fitness Coach")
	hint := a.theme.MutedStyle.Render("Press any key to sign in")
	return lipgloss.Place(a.width, a.height-2, lipgloss.Center, lipgloss.Center,
		title+"\n\n"+hint)
}

func (a App) viewAuth() string {
	var sb strings.Builder
	mode := a.locale.T("auth.sign_in")
	toggle := a.locale.T("auth.switch_sign_up")
	if a.signUpMode {
		mode = a.locale.T("auth.sign_up")
		toggle = a.locale.T("auth.switch_sign_in")
	}
	sb.WriteString(a.theme.TitleStyle.Render(mode) + "\n\n")
	for i := range a.authInputs {
		sb.WriteString(a.authInputs[i].View() + "\n")
	}
	sb.WriteString("\n" + a.theme.MutedStyle.Render("ctrl+s "+toggle) + "\n")
	sb.WriteString(a.theme.MutedStyle.Render("ctrl+g "+a.locale.T("auth.google")) + "\n")
	if a.authError != "" {
		sb.WriteString("\n" + a.theme.ErrorStyle.Render(a.authError) + "\n")
	}
	return sb.String()
}

func (a App) viewDashboard() string {
	var sb strings.Builder
	if sess := a.monitor.Session(); sess != nil {
		sb.WriteString(a.theme.TitleStyle.Render(a.locale.T("dashboard.greeting", sess.Email)) + "\n")
		sb.WriteString(a.renderAchievements() + "\n\n")
	}
	sb.WriteString(a.chatView.View() + "\n")
	sb.WriteString(a.theme.InputStyle.Width(a.width).Render(a.chatInput.View()) + "\n")
	sb.WriteString(a.theme.MutedStyle.Render(a.locale.T("chat.new")))
	return sb.String()
}

func (a App) viewPlanForm() string {
	var sb strings.Builder
	sb.WriteString(a.theme.TitleStyle.Render(a.locale.T("form.generate")) + "\n\n")
	for i := range a.formInputs {
		sb.WriteString(a.formInputs[i].View() + "\n")
	}
	if a.formNotice != "" {
		sb.WriteString("\n" + a.theme.ErrorStyle.Render(a.formNotice) + "\n")
	}
	if a.busy {
		sb.WriteString("\n" + a.theme.MutedStyle.Render(a.locale.T("form.generating")) + "\n")
	}
	if result := a.generator.Result(); result != "" {
		sb.WriteString("\n" + RenderMarkdown(result, a.width-2) + "\n")
		if block := RenderLinks(a.generator.Links(), a.theme, a.locale.T("daily.resources")); block != "" {
			sb.WriteString("\n" + block + "\n")
		}
		sb.WriteString("\n" + a.theme.MutedStyle.Render("ctrl+e "+a.locale.T("form.export")) + "\n")
	}
	return sb.String()
}

func (a App) renderAchievements() string {
	parts := []string{a.locale.T("dashboard.xp", a.xp.XP)}
	if len(a.xp.Badges) == 0 {
		parts = append(parts, a.theme.MutedStyle.Render(a.locale.T("dashboard.no_badges")))
	}
	for _, b := range a.xp.Badges {
		parts = append(parts, a.theme.BadgeStyle.Render(b))
	}
	return strings.Join(parts, " ")
}

func (a App) viewProgress() string {
	var sb strings.Builder
	sb.WriteString(a.theme.TitleStyle.Render(a.locale.T("progress.title")) + "\n\n")
	sb.WriteString(a.weightInput.View() + "\n")
	sb.WriteString(a.noteInput.View() + "\n")
	if a.progressMsg != "" {
		sb.WriteString("\n" + a.theme.SuccessStyle.Render(a.progressMsg) + "\n")
	}
	sb.WriteString("\n" + a.renderRangeLabel() + "\n")
	sb.WriteString(a.renderChart() + "\n")
	if a.trendSummary != "" {
		sb.WriteString("\n" + RenderMarkdown(a.trendSummary, a.width-2) + "\n")
	}
	sb.WriteString(a.theme.MutedStyle.Render("ctrl+r range · ctrl+a " + a.locale.T("progress.analyze")))
	return sb.String()
}

func (a App) renderRangeLabel() string {
	switch a.rangeDays {
	case 7:
		return a.theme.LabelStyle.Render(a.locale.T("progress.last7"))
	case 30:
		return a.theme.LabelStyle.Render(a.locale.T("progress.last30"))
	default:
		return a.theme.LabelStyle.Render(a.locale.T("progress.all"))
	}
}

// renderChart 简单的文本体重曲线：每条记录一行刻度条
func (a App) renderChart() string {
	if len(a.entries) == 0 {
		return a.theme.MutedStyle.Render(a.locale.T("progress.no_entries"))
	}
	min, max := a.entries[0].Weight, a.entries[0].Weight
	for _, e := range a.entries {
		if e.Weight < min {
			min = e.Weight
		}
		if e.Weight > max {
			max = e.Weight
		}
	}
	span := max - min
	var sb strings.Builder
	for _, e := range a.entries {
		width := 10
		if span > 0 {
			width = 2 + int((e.Weight-min)/span*28)
		}
		sb.WriteString(fmt.Sprintf("%s %6.1f %s\n",
			e.Timestamp.Format("01-02"), e.Weight,
			a.theme.LabelStyle.Render(strings.Repeat("▇", width))))
	}
	return sb.String()
}

func (a App) viewTimeline() string {
	var sb strings.Builder
	sb.WriteString(a.theme.TitleStyle.Render(a.locale.T("view.timeline")) + "\n\n")
	for _, e := range progress.Timeline(a.entries) {
		sb.WriteString(a.theme.LabelStyle.Render(e.Timestamp.Format("2006-01-02 15:04")) +
			fmt.Sprintf("  %.1f kg", e.Weight))
		if e.Note != "" {
			sb.WriteString("  " + a.theme.MutedStyle.Render(e.Note))
		}
		sb.WriteString("\n")
	}
	if len(a.entries) == 0 {
		sb.WriteString(a.theme.MutedStyle.Render(a.locale.T("progress.no_entries")))
	}
	return sb.String()
}

func (a App) renderTabs() string {
	tabs := []struct {
		route session.Route
		key   string
	}{
		{session.RouteDashboard, "view.dashboard"},
		{session.RoutePlanForm, "form.generate"},
		{session.RouteDaily, "view.daily"},
		{session.RouteProgress, "view.progress"},
		{session.RouteTimeline, "view.timeline"},
		{session.RoutePlans, "view.plans"},
	}
	var parts []string
	for _, tab := range tabs {
		style := a.theme.InactiveTabStyle
		if tab.route == a.route {
			style = a.theme.ActiveTabStyle
		}
		parts = append(parts, style.Render(a.locale.T(tab.key)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a App) renderStatusBar() string {
	status := a.locale.T("status.ready")
	if a.busy {
		status = a.locale.T("chat.thinking")
	}
	left := " " + status
	right := a.locale.T("keys.theme") + "  " + a.locale.T("keys.quit") + "  "
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return a.theme.StatusBarStyle.Width(a.width).Render(left + strings.Repeat(" ", gap) + right)
}

// Run 启动 Bubble Tea TUI 并接管路由
// Run starts the Bubble Tea TUI and wires the router into the program.
func Run(app App, router *Router, monitor *session.Monitor) error {
	p := tea.NewProgram(app, tea.WithAltScreen())
	router.Attach(func(msg any) { p.Send(msg) })
	monitor.Start()
	defer monitor.Stop()
	_, err := p.Run()
	return err
}
