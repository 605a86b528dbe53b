package progress

import (
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Tokenizer token 计数器，tiktoken 不可用时回退到启发式
// Tokenizer counts tokens with tiktoken, falling back to a heuristic when the
// BPE data is unavailable.
type Tokenizer struct {
	encoder  *tiktoken.Tiktoken
	fallback bool
	mu       sync.RWMutex
}

var (
	defaultTokenizer     *Tokenizer
	defaultTokenizerOnce sync.Once
)

// DefaultTokenizer 返回全局默认实例
// DefaultTokenizer returns the shared default instance.
func DefaultTokenizer() *Tokenizer {
	defaultTokenizerOnce.Do(func() {
		defaultTokenizer = NewTokenizer("cl100k_base")
	})
	return defaultTokenizer
}

// NewTokenizer 创建 tokenizer；初始化失败则回退到启发式
// NewTokenizer creates a tokenizer, heuristic fallback on init failure.
func NewTokenizer(encodingName string) *Tokenizer {
	t := &Tokenizer{}
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		// 离线环境可能没有 BPE 缓存
		// Offline environments may lack the BPE cache.
		t.fallback = true
		return t
	}
	t.encoder = enc
	return t
}

// CountText 计算文本的 token 数
// CountText counts tokens for a single text string.
func (t *Tokenizer) CountText(text string) int {
	if text == "" {
		return 0
	}
	if t.fallback {
		return heuristicTokenCount(text)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.encoder.Encode(text, nil, nil))
}

// heuristicTokenCount 启发式估算: CJK ~1.5 token/字, ASCII ~4 chars/token
// heuristicTokenCount estimates CJK at ~1.5 tokens per rune and ASCII at ~4
// characters per token.
func heuristicTokenCount(text string) int {
	if text == "" {
		return 0
	}
	cjkCount := 0
	asciiCount := 0
	for _, r := range text {
		if isCJK(r) {
			cjkCount++
		} else {
			asciiCount++
		}
	}
	estimate := int(float64(cjkCount)*1.5 + float64(asciiCount)*0.25)
	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || // CJK Unified
		(r >= 0x3400 && r <= 0x4DBF) || // CJK Extension A
		(r >= 0x3000 && r <= 0x303F) || // CJK Symbols
		(r >= 0xFF00 && r <= 0xFFEF) || // Fullwidth Forms
		(r >= 0xAC00 && r <= 0xD7AF) // Korean Hangul
}
