package domain

import "encoding/json"

// Location is a place where books are shelved
type Location struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON tolerates a null description
func (l *Location) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          int64   `json:"id"`
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = Location{ID: raw.ID, Name: raw.Name, Description: deref(raw.Description)}
	return nil
}

// LocationDraft is the payload for creating a location
type LocationDraft struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FindLocation returns the location with the given id
func FindLocation(locations []Location, id int64) (Location, bool) {
	for _, l := range locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}
