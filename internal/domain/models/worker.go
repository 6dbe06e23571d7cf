package models

// Worker is a registered loom operator.
type Worker struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
}

// WorkerCreate is the payload for registering a new worker.
type WorkerCreate struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// WorkerUpdate is a partial update; nil fields are left untouched upstream.
type WorkerUpdate struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
