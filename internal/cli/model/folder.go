package model

// Folder: пользовательская папка для группировки клипов.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// Типы правил автотегирования.
const (
	RuleURLContains = "url-contains"
	RuleTextRegex   = "text-regex"
)

// TagRule: правило в том виде, в каком оно хранится в сторе.
type TagRule struct {
	Type    string   `json:"type"`
	Pattern string   `json:"pattern"`
	Tags    []string `json:"tags"`
}

// CopyFormat: формат текста для "скопировать всё".
type CopyFormat string

const (
	CopyBullets CopyFormat = "bullets"
	CopyNumbers CopyFormat = "numbers"
	CopyLines   CopyFormat = "lines"
)

// ParseCopyFormat возвращает формат по имени; неизвестные значения дают bullets.
func ParseCopyFormat(s string) CopyFormat {
	switch CopyFormat(s) {
	case CopyNumbers, CopyLines:
		return CopyFormat(s)
	default:
		return CopyBullets
	}
}
