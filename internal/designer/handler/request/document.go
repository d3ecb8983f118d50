package request

type CreateDocument struct {
	Name  string `json:"name" validate:"required"`
	Type  string `json:"type" validate:"required,oneof=job transformation"`
	Scope string `json:"scope"`
}

type SetShared struct {
	Shared *bool `json:"shared" validate:"required"`
}
