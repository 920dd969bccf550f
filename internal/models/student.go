package models

import "time"

// Role is the authorization level carried in access tokens.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Student is a registered academy member (aluno). Teachers are members with the teacher role.
type Student struct {
	ID           int64     `db:"id" json:"id"`
	Matricula    string    `db:"matricula" json:"matricula"`
	Name         string    `db:"nome" json:"nome"`
	CPF          *string   `db:"cpf" json:"cpf,omitempty"`
	PasswordHash string    `db:"senha_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	PhotoURL     *string   `db:"foto_url" json:"foto_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Role     Role
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
