package domain

import (
	"time"

	"github.com/google/uuid"
)

type Season struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	StartsOn time.Time `json:"starts_on"`
	EndsOn   time.Time `json:"ends_on"`
}
