package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// Views
	"view.landing":   "Welcome",
	"view.auth":      "Sign In",
	"view.dashboard": "Dashboard",
	"view.daily":     "Daily Plan",
	"view.progress":  "Progress",
	"view.timeline":  "Timeline",
	"view.plans":     "Past Plans",

	// Auth card
	"auth.email":          "Email",
	"auth.password":       "Password",
	"auth.sign_in":        "Sign In",
	"auth.sign_up":        "Sign Up",
	"auth.sign_out":       "Sign Out",
	"auth.google":         "Continue with Google",
	"auth.switch_sign_up": "Need an account? Sign up",
	"auth.switch_sign_in": "Have an account? Sign in",

	// Dashboard
	"dashboard.greeting":     "Welcome back, %s",
	"dashboard.achievements": "Achievements",
	"dashboard.xp":           "%d XP",
	"dashboard.no_badges":    "No badges yet",

	// Goal form
	"form.goal":            "Goal",
	"form.age":             "Age",
	"form.height":          "Height (cm)",
	"form.weight":          "Weight (kg)",
	"form.activity_level":  "Activity Level",
	"form.diet_preference": "Diet Preference",
	"form.generate":        "Generate Plan",
	"form.generating":      "Generating your plan...",
	"form.export":          "Download Plan",

	// Daily view
	"daily.title":      "Your Daily Plan",
	"daily.loading":    "Generating today's plan...",
	"daily.history":    "Past Daily Plans",
	"daily.resources":  "Helpful Resources:",

	// Progress
	"progress.title":       "Track Your Progress",
	"progress.weight":      "Current weight (kg)",
	"progress.note":        "Note or workout (optional)",
	"progress.save":        "Save Progress",
	"progress.last7":       "Last 7 Days",
	"progress.last30":      "Last 30 Days",
	"progress.all":         "All Time",
	"progress.analyze":     "Analyze My Progress",
	"progress.analyzing":   "Analyzing...",
	"progress.no_entries":  "No entries yet.",

	// Chat
	"chat.title":       "Coach Chat",
	"chat.placeholder": "Ask your coach anything...",
	"chat.send":        "Send",
	"chat.thinking":    "Thinking...",
	"chat.new":         "ctrl+n new chat",

	// Status / keys
	"status.ready":  "Ready",
	"keys.quit":     "ctrl+c quit",
	"keys.theme":    "ctrl+t theme",
	"keys.tab":      "tab switch view",
	"keys.enter":    "enter send",
}
