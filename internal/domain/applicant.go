package domain

// ClientType distinguishes individual applicants from businesses.
type ClientType string

const (
	ClientTypeIndividual ClientType = "particulier"
	ClientTypeBusiness   ClientType = "entreprise"
)

// ApplicantProfile carries the identity fields collected with a request.
type ApplicantProfile struct {
	FullName   string     `json:"full_name" validate:"required,min=2"`
	Email      string     `json:"email" validate:"required,email"`
	Phone      string     `json:"phone" validate:"required,phone"`
	ClientType ClientType `json:"client_type" validate:"required,oneof=particulier entreprise"`
	Profession string     `json:"profession,omitempty" validate:"omitempty,min=2"`
}
