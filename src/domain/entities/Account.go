package entities

import (
	"time"
)

// É o "nó" do grafo de relacionamentos: uma conta de negócio.
type Account struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
