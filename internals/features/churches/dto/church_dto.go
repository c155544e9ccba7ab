package dto

type CreateChurchRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	City  string `json:"city" validate:"max=80"`
	Phone string `json:"phone" validate:"max=30"`
}

type CreateRepresentativeRequest struct {
	ChurchID string `json:"church_id" validate:"required,uuid4"`
	Name     string `json:"name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"max=30"`
}
