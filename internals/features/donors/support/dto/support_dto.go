package dto

type CreateSupportRequestRequest struct {
	DonorID  string `json:"donor_id" validate:"required,uuid4"`
	Subject  string `json:"subject" validate:"required,max=150"`
	Message  string `json:"message" validate:"required"`
	Category string `json:"category" validate:"omitempty,oneof=payment plan account general other"`
	Priority string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

type UpdateSupportRequestRequest struct {
	Status     *string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	Priority   *string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	AssignedTo *string `json:"assigned_to" validate:"omitempty,uuid4"`
	AdminNotes *string `json:"admin_notes"`
}

type CreateReplyRequest struct {
	Message    string `json:"message" validate:"required"`
	IsInternal bool   `json:"is_internal"`
}
