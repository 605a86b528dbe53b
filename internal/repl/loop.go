package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/aaa474/ai-fitness-coach/internal/chat"
	"github.com/aaa474/ai-fitness-coach/internal/plan"
	"github.com/aaa474/ai-fitness-coach/internal/progress"
	"github.com/aaa474/ai-fitness-coach/internal/session"
)

// ANSI colors for the prompt
const (
	ansiReset = "\x1b[0m"
	ansiDim   = "\x1b[90m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
)

// Loop 持有行模式状态：会话监控器与各业务组件
// Loop holds line-mode state: the session monitor and the domain components.
type Loop struct {
	Monitor   *session.Monitor
	Chat      *chat.Session
	Progress  *progress.Store
	Generator *plan.Generator
	Daily     *plan.Daily

	// DataDir 决定历史文件位置
	// DataDir decides where the input history file lives.
	DataDir string
}

// Run 运行行模式循环：readline 输入、斜杠命令、其余文本进入对话。
// Run drives the line-mode loop: readline input with persistent history,
// slash commands, any other text goes to the coach conversation.
func (l *Loop) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          l.prompt(),
		HistoryFile:     filepath.Join(l.DataDir, "repl_history"),
		InterruptPrompt: "^C",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()
	out := rl.Stdout()

	for {
		rl.SetPrompt(l.prompt())
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := l.handleCommand(ctx, out, line); quit {
				return nil
			}
			continue
		}

		// 错误文案已经作为 AI 消息落入转录，这里只负责打印
		_ = l.Chat.Send(ctx, line)
		msgs := l.Chat.Messages()
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			fmt.Fprintln(out, last.Text)
		}
		for _, link := range l.Chat.Links() {
			fmt.Fprintf(out, "%s  %s%s%s\n", link.Label, ansiDim, link.URL, ansiReset)
		}
	}
}

func (l *Loop) prompt() string {
	who := "anonymous"
	if sess := l.Monitor.Session(); sess != nil {
		who = sess.Email
	}
	return fmt.Sprintf("%s[%s]%s coach> ", ansiGreen, who, ansiReset)
}

// handleCommand 处理斜杠命令；返回 true 表示退出循环
func (l *Loop) handleCommand(ctx context.Context, out io.Writer, line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Fprint(out, helpText)

	case "/login":
		if len(args) < 2 {
			fmt.Fprintln(out, "usage: /login <email> <password>")
			break
		}
		l.report(out, l.Monitor.SignIn(ctx, args[0], args[1]), "Signed in.")

	case "/signup":
		if len(args) < 2 {
			fmt.Fprintln(out, "usage: /signup <email> <password>")
			break
		}
		l.report(out, l.Monitor.SignUp(ctx, args[0], args[1]), "Account created.")

	case "/logout":
		l.report(out, l.Monitor.SignOut(ctx), "Signed out.")

	case "/reset":
		l.Chat.Reset()
		fmt.Fprintln(out, "Conversation cleared.")

	case "/track":
		if len(args) < 1 {
			fmt.Fprintln(out, "usage: /track <weight-kg> [note...]")
			break
		}
		message, err := l.Progress.Submit(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			fmt.Fprintf(out, "%s%v%s\n", ansiRed, err, ansiReset)
			break
		}
		fmt.Fprintln(out, message)

	case "/progress":
		rangeDays := 0
		if len(args) > 0 {
			fmt.Sscanf(args[0], "%d", &rangeDays)
		}
		entries, err := l.Progress.Query(ctx, rangeDays)
		if err != nil {
			fmt.Fprintf(out, "%s%v%s\n", ansiRed, err, ansiReset)
			break
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No entries yet.")
			break
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s  %6.1f kg  %s\n",
				e.Timestamp.Format("2006-01-02"), e.Weight, e.Note)
		}

	case "/analyze":
		entries, err := l.Progress.Query(ctx, 0)
		if err != nil {
			fmt.Fprintf(out, "%s%v%s\n", ansiRed, err, ansiReset)
			break
		}
		text, err := l.Progress.SummarizeTrend(ctx, entries)
		if err != nil {
			text = "Failed to analyze progress."
		}
		fmt.Fprintln(out, text)

	case "/daily":
		sess := l.Monitor.Session()
		if sess == nil {
			fmt.Fprintln(out, "Please log in first.")
			break
		}
		state := l.Daily.Activate(ctx, sess.Email)
		l.Daily.Deactivate()
		if state.CheckinMessage != "" {
			fmt.Fprintln(out, state.CheckinMessage)
		}
		fmt.Fprintln(out, state.TodayPlan)
		for _, rec := range state.History {
			fmt.Fprintf(out, "%s--- %s ---%s\n%s\n",
				ansiDim, rec.Timestamp.Format("2006-01-02"), ansiReset, rec.Plan)
		}

	case "/plans":
		records, err := l.Generator.History(ctx)
		if err != nil {
			fmt.Fprintf(out, "%s%v%s\n", ansiRed, err, ansiReset)
			break
		}
		for _, rec := range records {
			fmt.Fprintf(out, "%s--- %s ---%s\n%s\n",
				ansiDim, rec.Timestamp.Format("2006-01-02"), ansiReset, rec.Plan)
		}

	case "/export":
		path := "fitness-plan.md"
		if len(args) > 0 {
			path = args[0]
		}
		if err := l.Generator.ExportDocument(path); err != nil {
			fmt.Fprintf(out, "%s%v%s\n", ansiRed, err, ansiReset)
		}

	default:
		fmt.Fprintf(out, "unknown command %s (try /help)\n", cmd)
	}
	return false
}

func (l *Loop) report(out io.Writer, err error, ok string) {
	if err != nil {
		fmt.Fprintf(out, "%s%v%s\n", ansiRed, err, ansiReset)
		return
	}
	fmt.Fprintln(out, ok)
}

const helpText = `/login <email> <password>   sign in
/signup <email> <password>  create an account
/logout                     sign out
/reset                      clear the conversation
/track <kg> [note]          record a weight entry
/progress [days]            list entries (7, 30, or all)
/analyze                    AI trend commentary
/daily                      today's plan, check-in, history
/plans                      past generated plans
/export [path]              write the last plan to a file
/quit                       exit
`
