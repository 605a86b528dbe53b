package progress

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aaa474/ai-fitness-coach/internal/api"
	"github.com/aaa474/ai-fitness-coach/internal/session"
)

// 体重合法区间 (20,300] kg，与目标表单一致
const (
	minWeightKg = 20
	maxWeightKg = 300
)

// 趋势总结提示词的 token 上限；超出时丢弃最旧的行
// Token ceiling for the trend-summary prompt. Oldest lines are dropped first
// when a long history exceeds it.
const trendPromptTokenBudget = 2048

// Backend 远端进度调用面
type Backend interface {
	TrackProgress(ctx context.Context, email string, weight float64, note string) (string, error)
	Progress(ctx context.Context, email string) ([]api.ProgressEntry, error)
	Chat(ctx context.Context, message, userEmail, language string) (string, error)
}

// Store 进度录入与查询。条目只经服务端确认后出现在查询结果中，本地不做乐观追加。
// Store submits and queries weight entries. There is no optimistic local
// append: an entry exists only once the server acknowledges it.
type Store struct {
	backend   Backend
	sessions  session.Source
	tokenizer *Tokenizer
	now       func() time.Time
}

func NewStore(backend Backend, sessions session.Source) *Store {
	return &Store{
		backend:   backend,
		sessions:  sessions,
		tokenizer: DefaultTokenizer(),
		now:       time.Now,
	}
}

// Submit 提交一条体重记录。校验顺序固定：会话、数值、区间；任一失败即返回，
// 不发起网络请求。服务端返回的 message 原样透出。
// Submit records one weight entry. Validation order is fixed (session,
// numeric, range) and the first failure wins without touching the network.
// The server's message is returned verbatim, success or failure wording alike.
func (s *Store) Submit(ctx context.Context, weight, note string) (string, error) {
	sess := s.sessions.Session()
	if sess == nil {
		return "", &api.ValidationError{Message: "Please log in first."}
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
	if err != nil {
		return "", &api.ValidationError{Message: "Enter a valid weight."}
	}
	if value <= minWeightKg || value > maxWeightKg {
		return "", &api.ValidationError{Message: "Please enter a valid weight in kg."}
	}

	return s.backend.TrackProgress(ctx, sess.Email, value, note)
}

// Query 拉取会话账户的全部条目并按需过滤。rangeDays <= 0 表示不限；
// 否则保留 timestamp >= now - rangeDays 天（含下界）。结果按时间升序。
// Query fetches all entries for the session account, filters to the trailing
// rangeDays when positive (inclusive lower bound, wall-clock now at query
// time), and returns the chart view sorted ascending by timestamp.
func (s *Store) Query(ctx context.Context, rangeDays int) ([]api.ProgressEntry, error) {
	sess := s.sessions.Session()
	if sess == nil {
		return nil, &api.ValidationError{Message: "Please log in first."}
	}

	fetched, err := s.backend.Progress(ctx, sess.Email)
	if err != nil {
		return nil, err
	}

	// 派生视图，不改动取回的规范顺序
	entries := make([]api.ProgressEntry, 0, len(fetched))
	if rangeDays > 0 {
		cutoff := s.now().Add(-time.Duration(rangeDays) * 24 * time.Hour)
		for _, e := range fetched {
			if !e.Timestamp.Before(cutoff) {
				entries = append(entries, e)
			}
		}
	} else {
		entries = append(entries, fetched...)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

// Timeline 同一条目集的时间线视图：新在前。入参不被修改。
// Timeline derives the descending view over the same entries. The input slice
// is left untouched.
func Timeline(entries []api.ProgressEntry) []api.ProgressEntry {
	out := make([]api.ProgressEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Timestamp.Before(out[i].Timestamp)
	})
	return out
}

// SummarizeTrend 把体重日志拼成单条提示词发给 AI，返回其自由文本评述。
// 提示词按 token 预算截断，优先丢最旧的行。
// SummarizeTrend concatenates the log into one prompt and forwards it to the
// coach endpoint. The reply is surfaced verbatim; the prompt is capped to a
// token budget with the oldest lines dropped first.
func (s *Store) SummarizeTrend(ctx context.Context, entries []api.ProgressEntry) (string, error) {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s: %g kg", e.Timestamp.Format("1/2/2006"), e.Weight))
	}
	lines = s.capLines(lines)

	prompt := "Here is my weight log:\n" + strings.Join(lines, "\n") +
		"\n\nPlease summarize my trend and progress."
	return s.backend.Chat(ctx, prompt, api.AnonymousUser, "English")
}

// capLines 从最旧的行开始丢弃，直到总 token 不超预算
func (s *Store) capLines(lines []string) []string {
	total := 0
	counts := make([]int, len(lines))
	for i, line := range lines {
		counts[i] = s.tokenizer.CountText(line)
		total += counts[i]
	}
	start := 0
	for start < len(lines)-1 && total > trendPromptTokenBudget {
		total -= counts[start]
		start++
	}
	return lines[start:]
}
