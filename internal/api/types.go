package api

import "time"

// AnonymousUser 未登录时请求携带的哨兵邮箱
// AnonymousUser is the sentinel email sent when no session is active.
const AnonymousUser = "anonymous"

// ProgressEntry 服务端返回的一条体重记录
// ProgressEntry is one weight log row as returned by the backend.
type ProgressEntry struct {
	Timestamp time.Time
	Weight    float64
	Note      string
}

// PlanRecord 一条计划记录（每日计划或一次性计划）
// PlanRecord is one plan row (daily plan or ad-hoc generated plan).
type PlanRecord struct {
	Timestamp time.Time
	Plan      string
}

// XPSummary 成就数据：经验值与徽章
// XPSummary holds gamification data: experience points and earned badges.
type XPSummary struct {
	XP     int      `json:"xp"`
	Badges []string `json:"badges"`
}

// PlanRequest 计划生成请求字段，与后端 /api/generate-plan 对齐
// PlanRequest mirrors the /api/generate-plan request body.
type PlanRequest struct {
	Goal           string `json:"goal"`
	Age            string `json:"age"`
	Height         string `json:"height"`
	Weight         string `json:"weight"`
	ActivityLevel  string `json:"activityLevel"`
	DietPreference string `json:"dietPreference"`
	UserEmail      string `json:"userEmail"`
}
