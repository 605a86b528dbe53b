package storage

// Store 本地缓存接口
// Store is the local cache interface.
type Store interface {
	// 偏好 / Preferences
	LoadPreferences() (Preferences, error)
	SavePreferences(p Preferences) error

	// 转录 / Transcript
	AppendMessage(account, sender, body string) error
	LoadTranscript(account string) ([]TranscriptRow, error)
	ClearTranscript(account string) error

	// 生命周期 / Lifecycle
	Close() error
}
