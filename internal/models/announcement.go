package models

import "time"

// Announcement (aviso) is a notice posted by the academy staff.
type Announcement struct {
	ID       int64     `db:"id" json:"id"`
	Title    string    `db:"titulo" json:"titulo"`
	Message  string    `db:"mensagem" json:"mensagem"`
	MediaURL *string   `db:"midia_url" json:"midia_url,omitempty"`
	PostedAt time.Time `db:"data_postagem" json:"data_postagem"`
	AuthorID *int64    `db:"autor_id" json:"autor_id,omitempty"`
}

// AnnouncementFilter allows listing announcements.
type AnnouncementFilter struct {
	Page     int
	PageSize int
}
