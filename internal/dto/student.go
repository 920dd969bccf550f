package dto

// CreateStudentRequest registers a new academy member.
type CreateStudentRequest struct {
	Name      string  `json:"nome" validate:"required,notblank,max=120"`
	Matricula string  `json:"matricula" validate:"required,notblank,max=32"`
	CPF       *string `json:"cpf" validate:"omitempty,max=14"`
	Password  string  `json:"senha" validate:"required,min=6"`
	Role      string  `json:"role" validate:"omitempty,oneof=student teacher"`
	PhotoURL  *string `json:"foto_url" validate:"omitempty,url"`
}
