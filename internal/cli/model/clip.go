package model

// Источники захвата клипа.
const (
	SourceWeb    = "web"
	SourceNative = "native"
)

// Clip: сохранённый фрагмент текста с метаданными.
// Все временные метки: миллисекунды с эпохи.
type Clip struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt *int64   `json:"updatedAt,omitempty"` // nil до первого слияния дубликата
	FolderID  *string  `json:"folderId"`
	Starred   bool     `json:"starred"`
	DupCount  int      `json:"dupCount"`
	Hash      string   `json:"hash,omitempty"`
	Tags      []string `json:"tags"`
	Source    string   `json:"source,omitempty"`
	SyncedAt  *int64   `json:"syncedAt,omitempty"`
	Deleted   bool     `json:"deleted,omitempty"`
	DeviceID  string   `json:"deviceId,omitempty"` // заполняется только при выгрузке на сервер
}

// Count возвращает dupCount с учётом старых записей без счётчика.
func (c Clip) Count() int {
	if c.DupCount <= 0 {
		return 1
	}
	return c.DupCount
}

// LastModified: updatedAt, если он есть, иначе createdAt.
func (c Clip) LastModified() int64 {
	if c.UpdatedAt != nil && *c.UpdatedAt != 0 {
		return *c.UpdatedAt
	}
	return c.CreatedAt
}

// NeedsSync сообщает, что клип изменился после последней выгрузки.
func (c Clip) NeedsSync() bool {
	if c.SyncedAt == nil || *c.SyncedAt == 0 {
		return true
	}
	return *c.SyncedAt < c.LastModified()
}

// InFolder проверяет принадлежность клипа папке.
func (c Clip) InFolder(folderID string) bool {
	return c.FolderID != nil && *c.FolderID == folderID
}

// Clone возвращает глубокую копию клипа.
func (c Clip) Clone() Clip {
	out := c
	if c.UpdatedAt != nil {
		v := *c.UpdatedAt
		out.UpdatedAt = &v
	}
	if c.SyncedAt != nil {
		v := *c.SyncedAt
		out.SyncedAt = &v
	}
	if c.FolderID != nil {
		v := *c.FolderID
		out.FolderID = &v
	}
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	return out
}

// Int64Ptr: помощник для опциональных меток времени.
func Int64Ptr(v int64) *int64 { return &v }

// StringPtr: помощник для опциональных ссылок.
func StringPtr(v string) *string { return &v }
