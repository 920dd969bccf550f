package dto

// ClassRequest is the payload for creating or replacing a class template.
type ClassRequest struct {
	DayOfWeek string `json:"dia_semana" validate:"required,weekday"`
	Time      string `json:"horario" validate:"required,hhmm"`
	Activity  string `json:"modalidade" validate:"required,notblank,max=80"`
}

// ClassDeleteResult reports what a class deletion removed.
type ClassDeleteResult struct {
	Deleted         bool   `json:"deleted"`
	OrphanPolicy    string `json:"orphan_policy"`
	RemovedCheckIns int64  `json:"removed_checkins"`
}
