package plan

import (
	"strconv"
	"strings"

	"github.com/aaa474/ai-fitness-coach/internal/api"
)

// Form 目标表单；仅在本地校验通过后上送
// Form is the transient goal form, validated locally before transmission.
type Form struct {
	Goal           string
	Age            string
	Height         string
	Weight         string
	ActivityLevel  string
	DietPreference string
}

// Validate 按固定顺序校验，第一条失败即返回；通过时返回 nil。
// Validate applies the rules in fixed order and returns the first failure.
func (f Form) Validate() error {
	if strings.TrimSpace(f.Goal) == "" ||
		strings.TrimSpace(f.ActivityLevel) == "" ||
		strings.TrimSpace(f.DietPreference) == "" {
		return &api.ValidationError{Message: "Goal, Activity Level, and Diet Preference are required."}
	}
	if !numericInRange(f.Age, 0, 120) {
		return &api.ValidationError{Message: "Please enter a valid age."}
	}
	if !numericInRange(f.Height, 50, 300) {
		return &api.ValidationError{Message: "Please enter a valid height in cm."}
	}
	if !numericInRange(f.Weight, 20, 300) {
		return &api.ValidationError{Message: "Please enter a valid weight in kg."}
	}
	return nil
}

// numericInRange 半开区间 (min, max]
func numericInRange(s string, min, max float64) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return false
	}
	return v > min && v <= max
}

func (f Form) request(email string) api.PlanRequest {
	return api.PlanRequest{
		Goal:           f.Goal,
		Age:            f.Age,
		Height:         f.Height,
		Weight:         f.Weight,
		ActivityLevel:  f.ActivityLevel,
		DietPreference: f.DietPreference,
		UserEmail:      email,
	}
}
