package models

import "time"

// Channel is one attribution event: a forwarded message was traced back to a
// channel. The table is an append-only log — rows are never updated or
// deleted, and the same channel may appear many times. Readers deduplicate
// with distinct projections over ChannelURL / ChannelName.
type Channel struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	ChannelID  int64  `gorm:"column:channel_id;not null"`
	ChannelURL string `gorm:"column:channel_url;not null"`
	// ChannelName holds the sentinel "Неизвестно" when no title could be
	// resolved.
	ChannelName string    `gorm:"column:channel_name;not null"`
	ObservedAt  time.Time `gorm:"column:observed_at;not null"`
}

func (Channel) TableName() string { return "channels" }
