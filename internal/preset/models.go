package preset

import (
	"time"

	"starmap-server/internal/search"
)

// Preset is a named, saved search. The query is kept in its wire form so that
// presets survive changes to the internal query representation.
type Preset struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Query       search.Request `json:"query"`
	CreatedBy   string         `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type CreatePresetRequest struct {
	Name        string         `json:"name" validate:"required,max=100"`
	Description string         `json:"description" validate:"max=1000"`
	Query       search.Request `json:"query"`
}
