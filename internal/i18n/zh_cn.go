package i18n

// ZhCNMessages 简体中文消息目录
// ZhCNMessages is the Simplified Chinese message catalog
var ZhCNMessages = map[string]string{
	// Views
	"view.landing":   "欢迎",
	"view.auth":      "登录",
	"view.dashboard": "仪表盘",
	"view.daily":     "每日计划",
	"view.progress":  "进度",
	"view.timeline":  "时间线",
	"view.plans":     "历史计划",

	// Auth card
	"auth.email":          "邮箱",
	"auth.password":       "密码",
	"auth.sign_in":        "登录",
	"auth.sign_up":        "注册",
	"auth.sign_out":       "退出登录",
	"auth.google":         "使用 Google 登录",
	"auth.switch_sign_up": "没有账号？注册",
	"auth.switch_sign_in": "已有账号？登录",

	// Dashboard
	"dashboard.greeting":     "欢迎回来，%s",
	"dashboard.achievements": "成就",
	"dashboard.xp":           "%d 经验值",
	"dashboard.no_badges":    "暂无徽章",

	// Goal form
	"form.goal":            "目标",
	"form.age":             "年龄",
	"form.height":          "身高 (cm)",
	"form.weight":          "体重 (kg)",
	"form.activity_level":  "活动水平",
	"form.diet_preference": "饮食偏好",
	"form.generate":        "生成计划",
	"form.generating":      "正在生成计划...",
	"form.export":          "下载计划",

	// Daily view
	"daily.title":     "今日计划",
	"daily.loading":   "正在生成今日计划...",
	"daily.history":   "历史每日计划",
	"daily.resources": "相关资源：",

	// Progress
	"progress.title":      "记录进度",
	"progress.weight":     "当前体重 (kg)",
	"progress.note":       "备注或训练内容（可选）",
	"progress.save":       "保存进度",
	"progress.last7":      "最近 7 天",
	"progress.last30":     "最近 30 天",
	"progress.all":        "全部",
	"progress.analyze":    "分析我的进度",
	"progress.analyzing":  "分析中...",
	"progress.no_entries": "暂无记录。",

	// Chat
	"chat.title":       "教练对话",
	"chat.placeholder": "向教练提问...",
	"chat.send":        "发送",
	"chat.thinking":    "思考中...",
	"chat.new":         "ctrl+n 新对话",

	// Status / keys
	"status.ready": "就绪",
	"keys.quit":    "ctrl+c 退出",
	"keys.theme":   "ctrl+t 主题",
	"keys.tab":     "tab 切换视图",
	"keys.enter":   "enter 发送",
}
