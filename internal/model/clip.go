package model

// Clip: серверная копия клипа. Временные метки в миллисекундах с эпохи,
// SyncedAt проставляет сервер при каждой записи.
type Clip struct {
	ID        string   `gorm:"primaryKey" json:"id"`
	Text      string   `gorm:"not null" json:"text"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Tags      []string `gorm:"serializer:json;type:text" json:"tags"`
	CreatedAt int64    `gorm:"not null;index;autoCreateTime:false" json:"createdAt"`
	UpdatedAt int64    `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
	FolderID  *string  `json:"folderId"`
	Starred   bool     `gorm:"not null" json:"starred"`
	Hash      string   `json:"hash,omitempty"`
	Source    string   `json:"source,omitempty"`
	DupCount  int      `gorm:"not null" json:"dupCount"`
	DeviceID  string   `gorm:"index" json:"deviceId,omitempty"`
	SyncedAt  int64    `gorm:"not null;index" json:"syncedAt"`
	Deleted   bool     `gorm:"not null;index" json:"deleted"`
}

// ClipStats: сводка по таблице клипов.
type ClipStats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Deleted int64 `json:"deleted"`
	Devices int64 `json:"devices"`
}
