package dto

import "time"

// AnnouncementRequest is the payload for posting or editing an announcement.
type AnnouncementRequest struct {
	Title    string  `json:"titulo" validate:"required,notblank,max=120"`
	Message  string  `json:"mensagem" validate:"required,notblank"`
	MediaURL *string `json:"midia_url" validate:"omitempty,url"`
}

// AnnouncementUpdates tells a client whether something was posted after its last visit.
type AnnouncementUpdates struct {
	HasNewUpdate   bool       `json:"has_new_update"`
	LatestPostagem *time.Time `json:"latest_postagem,omitempty"`
}
