package users

import "fmt"

// Info is the user profile returned by the login endpoint. Field names follow
// the backend's wire contract and must not be renamed.
type Info struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre"`
	SistemaID   int    `json:"sistema_id"`
	CompagniaID int    `json:"compagnia_id"`
}

// DisplayName returns the name to greet the user with.
func (i *Info) DisplayName() string {
	if i == nil {
		return ""
	}
	return i.Nombre
}

func (i *Info) String() string {
	if i == nil {
		return "<no user>"
	}
	return fmt.Sprintf("%s (id=%d sistema=%d compagnia=%d)", i.Nombre, i.ID, i.SistemaID, i.CompagniaID)
}
