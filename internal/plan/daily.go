package plan

import (
	"context"
	"errors"
	"sync"

	"github.com/aaa474/ai-fitness-coach/internal/api"
)

// DailyState 每日视图一次刷新产出的完整状态
// DailyState is the full state one refresh of the daily view produces.
type DailyState struct {
	CheckinMessage string
	TodayPlan      string
	History        []api.PlanRecord
}

// Daily 每日签到协调器。每次激活最多发出一次签到；今日计划与历史并发拉取，
// 互不阻塞；任何失败都以占位文案收场，不向上传播。
// Daily coordinates the once-per-activation check-in. Today's plan and the
// bounded history are fetched concurrently, neither gated on the other;
// failures surface as placeholder text and never propagate.
type Daily struct {
	backend Backend

	mu        sync.Mutex
	checkedIn bool
}

func NewDaily(backend Backend) *Daily {
	return &Daily{backend: backend}
}

// Activate 进入每日视图。重复调用（如界面重绘）不会重复签到；
// Deactivate 之后再 Activate 重新武装签到。
// Activate enters the daily view. Repeated calls while active never repeat
// the check-in request; Deactivate followed by Activate rearms it. The server
// still deduplicates by calendar day, so a rearmed check-in is safe.
func (d *Daily) Activate(ctx context.Context, email string) DailyState {
	d.mu.Lock()
	doCheckin := !d.checkedIn
	if doCheckin {
		d.checkedIn = true
	}
	d.mu.Unlock()

	var state DailyState
	var wg sync.WaitGroup

	if doCheckin {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg, err := d.backend.DailyCheckin(ctx, email)
			if err != nil {
				var serr *api.ServerError
				if errors.As(err, &serr) {
					msg = serr.Message
				} else {
					msg = ""
				}
			}
			state.CheckinMessage = msg
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		plan, err := d.backend.DailyPlan(ctx, email)
		switch {
		case err == nil && plan == "":
			plan = "No plan generated."
		case err != nil:
			var serr *api.ServerError
			if errors.As(err, &serr) {
				plan = serr.Message
			} else {
				plan = "Failed to load today's plan."
			}
		}
		state.TodayPlan = plan
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		history, err := d.backend.DailyHistory(ctx, email)
		if err != nil {
			// 历史加载失败只影响历史区块
			return
		}
		state.History = sortNewestFirst(history)
	}()

	wg.Wait()
	return state
}

// Deactivate 离开每日视图并重新武装签到
// Deactivate leaves the daily view and rearms the check-in.
func (d *Daily) Deactivate() {
	d.mu.Lock()
	d.checkedIn = false
	d.mu.Unlock()
}

// Achievements 拉取 XP 与徽章，用于仪表盘成就卡
// Achievements fetches XP and badges for the dashboard card.
func (d *Daily) Achievements(ctx context.Context, email string) (api.XPSummary, error) {
	return d.backend.XP(ctx, email)
}
