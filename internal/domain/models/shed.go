package models

// Loom is a production machine identified within a shed by its loom number.
type Loom struct {
	ID         string `json:"id"`
	LoomNumber string `json:"loom_number"`
}

// Shed is a physical grouping of looms. The hierarchy arrives as one nested
// snapshot from the backend; looms carry no ordering guarantee.
type Shed struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Looms []Loom `json:"looms"`
}
