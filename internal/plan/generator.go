package plan

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/aaa474/ai-fitness-coach/internal/api"
	"github.com/aaa474/ai-fitness-coach/internal/export"
	"github.com/aaa474/ai-fitness-coach/internal/links"
	"github.com/aaa474/ai-fitness-coach/internal/session"
)

// Backend 计划相关的远端调用面
type Backend interface {
	GeneratePlan(ctx context.Context, req api.PlanRequest) (string, error)
	Plans(ctx context.Context, userEmail string) ([]api.PlanRecord, error)
	DailyCheckin(ctx context.Context, userEmail string) (string, error)
	DailyPlan(ctx context.Context, userEmail string) (string, error)
	DailyHistory(ctx context.Context, userEmail string) ([]api.PlanRecord, error)
	XP(ctx context.Context, userEmail string) (api.XPSummary, error)
}

// Generator 计划生成器。单一结果槽：成功的计划、服务端错误文案或固定的
// 失败提示共用同一展示位。
// Generator drives plan generation. It keeps a single result slot shared by
// a successful plan, the server's error wording, and the fixed transport
// failure text.
type Generator struct {
	backend  Backend
	sessions session.Source

	mu     sync.Mutex
	form   Form
	result string
}

func NewGenerator(backend Backend, sessions session.Source) *Generator {
	return &Generator{backend: backend, sessions: sessions}
}

// Generate 校验表单并请求生成计划。校验失败不触网；服务端 error 字段和
// 传输失败都落入结果槽。
// Generate validates the form and requests a plan. Validation failures never
// reach the network. Server error wording lands in the result slot verbatim;
// transport failures land as a fixed retry prompt.
func (g *Generator) Generate(ctx context.Context, form Form) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	email := api.AnonymousUser
	if sess := g.sessions.Session(); sess != nil {
		email = sess.Email
	}

	text, err := g.backend.GeneratePlan(ctx, form.request(email))
	if err != nil {
		var serr *api.ServerError
		if errors.As(err, &serr) {
			text = serr.Message
		} else {
			text = "Failed to generate plan. Please try again."
		}
	} else if text == "" {
		// 成功但计划为空时给出固定占位文案
		text = "No plan returned"
	}

	g.mu.Lock()
	g.form = form
	g.result = text
	g.mu.Unlock()
	return text, err
}

// Result 当前结果槽内容；尚未生成时为空串
func (g *Generator) Result() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result
}

// Links 从结果槽提取资源链接
// Links extracts resource links from the result slot.
func (g *Generator) Links() []links.Link {
	g.mu.Lock()
	defer g.mu.Unlock()
	return links.Extract(g.result)
}

// ExportDocument 把表单与结果写为分页文档。没有结果时不写文件也不报错。
// ExportDocument writes the form and result as a paginated document. Before
// any result exists it writes nothing and returns nil.
func (g *Generator) ExportDocument(path string) error {
	g.mu.Lock()
	form, result := g.form, g.result
	g.mu.Unlock()
	if result == "" {
		return nil
	}

	doc := export.Document{
		Title: "Fitness Plan",
		Sections: []export.Section{
			{Heading: "Goals", Body: "Goal: " + form.Goal +
				"\nActivity Level: " + form.ActivityLevel +
				"\nDiet Preference: " + form.DietPreference},
			{Heading: "Plan", Body: result},
		},
	}
	return export.WriteFile(path, doc)
}

// History 列出历史计划，按时间倒序展示
// History lists past generated plans, newest first.
func (g *Generator) History(ctx context.Context) ([]api.PlanRecord, error) {
	sess := g.sessions.Session()
	if sess == nil {
		return nil, &api.ValidationError{Message: "Please log in first."}
	}
	records, err := g.backend.Plans(ctx, sess.Email)
	if err != nil {
		return nil, err
	}
	return sortNewestFirst(records), nil
}

func sortNewestFirst(records []api.PlanRecord) []api.PlanRecord {
	out := make([]api.PlanRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Timestamp.Before(out[i].Timestamp)
	})
	return out
}
