package models

import "time"

// DateLayout is the wire and storage format of check-in dates.
const DateLayout = "2006-01-02"

// CheckInRecord is one student's attendance for one class occurrence.
type CheckInRecord struct {
	ID        int64     `db:"id" json:"id"`
	StudentID int64     `db:"aluno_id" json:"aluno_id"`
	ClassID   int64     `db:"aula_id" json:"aula_id"`
	Date      string    `db:"data_checkin" json:"data_checkin"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RosterEntry is a check-in joined with the student's name.
type RosterEntry struct {
	ID        int64  `db:"id" json:"id"`
	StudentID int64  `db:"aluno_id" json:"aluno_id"`
	Name      string `db:"nome" json:"nome"`
}

// AttendanceRow is one line of the attendance report. Class columns are nil for
// check-ins whose class template was deleted.
type AttendanceRow struct {
	CheckInID   int64      `db:"id" json:"id"`
	Date        string     `db:"data_checkin" json:"data_checkin"`
	ClassID     int64      `db:"aula_id" json:"aula_id"`
	DayOfWeek   *DayOfWeek `db:"dia_semana" json:"dia_semana,omitempty"`
	Time        *string    `db:"horario" json:"horario,omitempty"`
	Activity    *string    `db:"modalidade" json:"modalidade,omitempty"`
	StudentID   int64      `db:"aluno_id" json:"aluno_id"`
	StudentName string     `db:"nome" json:"nome"`
	Matricula   string     `db:"matricula" json:"matricula"`
}
