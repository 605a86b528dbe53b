package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aaa474/ai-fitness-coach/internal/config"
)

// Client 封装后端九个 JSON POST 端点
// Client wraps the nine coaching-backend JSON POST endpoints. All calls take
// a snapshot of the user email from the caller; the client never reads
// mutable session state itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 按配置创建 HTTP 客户端
// NewClient creates the backend client from config.
func NewClient(cfg config.APIConfig) *Client {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Chat 发送一条聊天消息，返回 reply；载荷 error 字段映射为 *ServerError
// Chat sends one chat message. The reply text is returned; a payload "error"
// field is returned as *ServerError with the server's wording.
func (c *Client) Chat(ctx context.Context, message, userEmail, language string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
		Error string `json:"error"`
	}
	err := c.post(ctx, "/api/chat", map[string]string{
		"message":   message,
		"userEmail": userEmail,
		"language":  language,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", &ServerError{Message: out.Error}
	}
	return out.Reply, nil
}

// GeneratePlan 提交目标表单生成一次性计划
// GeneratePlan submits the goal form and returns the generated plan text.
func (c *Client) GeneratePlan(ctx context.Context, req PlanRequest) (string, error) {
	var out struct {
		Plan  string `json:"plan"`
		Error string `json:"error"`
	}
	if err := c.post(ctx, "/api/generate-plan", req, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", &ServerError{Message: out.Error}
	}
	return out.Plan, nil
}

// TrackProgress 上报一条体重记录，返回服务端的 message 原文
// TrackProgress submits one weight entry and returns the server's message
// verbatim, whatever its wording.
func (c *Client) TrackProgress(ctx context.Context, userEmail string, weight float64, note string) (string, error) {
	var out struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	err := c.post(ctx, "/api/track-progress", map[string]any{
		"userEmail": userEmail,
		"weight":    weight,
		"note":      note,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", &ServerError{Message: out.Error}
	}
	return out.Message, nil
}

// Progress 拉取全部体重记录；顺序以服务端返回为准
// Progress fetches all weight entries; server order is passed through.
func (c *Client) Progress(ctx context.Context, userEmail string) ([]ProgressEntry, error) {
	var out struct {
		Entries []struct {
			Timestamp string  `json:"timestamp"`
			Weight    float64 `json:"weight"`
			Note      string  `json:"note"`
		} `json:"entries"`
		Error string `json:"error"`
	}
	if err := c.post(ctx, "/api/get-progress", emailBody(userEmail), &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, &ServerError{Message: out.Error}
	}
	entries := make([]ProgressEntry, 0, len(out.Entries))
	for _, e := range out.Entries {
		ts, err := parseTimestamp(e.Timestamp)
		if err != nil {
			continue
		}
		entries = append(entries, ProgressEntry{Timestamp: ts, Weight: e.Weight, Note: e.Note})
	}
	return entries, nil
}

// Plans 拉取历史一次性计划
// Plans fetches past ad-hoc plans.
func (c *Client) Plans(ctx context.Context, userEmail string) ([]PlanRecord, error) {
	var out struct {
		Plans []wirePlan `json:"plans"`
		Error string     `json:"error"`
	}
	if err := c.post(ctx, "/api/get-plans", emailBody(userEmail), &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, &ServerError{Message: out.Error}
	}
	return decodePlans(out.Plans), nil
}

// DailyCheckin 触发每日签到，返回提示消息
// DailyCheckin performs the daily check-in and returns the server message.
func (c *Client) DailyCheckin(ctx context.Context, userEmail string) (string, error) {
	var out struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := c.post(ctx, "/api/daily-checkin", emailBody(userEmail), &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", &ServerError{Message: out.Error}
	}
	return out.Message, nil
}

// DailyPlan 获取（或由服务端生成）今天的计划；按日唯一由服务端保证
// DailyPlan returns today's plan, generating it server-side if absent.
// Per-day uniqueness is the server's invariant, not re-derived here.
func (c *Client) DailyPlan(ctx context.Context, userEmail string) (string, error) {
	var out struct {
		Plan  string `json:"plan"`
		Error string `json:"error"`
	}
	if err := c.post(ctx, "/api/get-daily-plan", emailBody(userEmail), &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", &ServerError{Message: out.Error}
	}
	return out.Plan, nil
}

// DailyHistory 获取最近的每日计划历史
// DailyHistory fetches the bounded history of past daily plans.
func (c *Client) DailyHistory(ctx context.Context, userEmail string) ([]PlanRecord, error) {
	var out struct {
		History []wirePlan `json:"history"`
		Error   string     `json:"error"`
	}
	if err := c.post(ctx, "/api/get-daily-history", emailBody(userEmail), &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, &ServerError{Message: out.Error}
	}
	return decodePlans(out.History), nil
}

// XP 获取经验值与徽章
// XP fetches experience points and badges.
func (c *Client) XP(ctx context.Context, userEmail string) (XPSummary, error) {
	var out struct {
		XPSummary
		Error string `json:"error"`
	}
	if err := c.post(ctx, "/api/get-xp", emailBody(userEmail), &out); err != nil {
		return XPSummary{}, err
	}
	if out.Error != "" {
		return XPSummary{}, &ServerError{Message: out.Error}
	}
	return out.XPSummary, nil
}

// --- internals ---

type wirePlan struct {
	Timestamp string `json:"timestamp"`
	Plan      string `json:"plan"`
}

func decodePlans(in []wirePlan) []PlanRecord {
	records := make([]PlanRecord, 0, len(in))
	for _, p := range in {
		ts, err := parseTimestamp(p.Timestamp)
		if err != nil {
			continue
		}
		records = append(records, PlanRecord{Timestamp: ts, Plan: p.Plan})
	}
	return records
}

func emailBody(userEmail string) map[string]string {
	return map[string]string{"userEmail": userEmail}
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send %s request: %w", path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	// 后端对失败也返回 JSON 的 error 字段；只有无法解析的响应才算传输失败
	// The backend reports failures through the JSON error field even on 4xx/5xx;
	// only an unparseable body counts as a transport failure.
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("parse %s response: status=%d: %w", path, resp.StatusCode, err)
	}
	return nil
}

// 服务端时间戳格式不统一：isoformat（含/不含微秒）或 HTTP 日期
// Server timestamps are inconsistent: Python isoformat (with or without
// microseconds) or HTTP-date from plain jsonify serialization.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
