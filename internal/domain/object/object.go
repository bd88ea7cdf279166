// Package object holds the typed domain objects a search resolves into.
package object

// Kind discriminates the concrete object kinds behind a search document.
type Kind string

// Document type discriminators as stored in the search index.
const (
	KindObject         Kind = "Object"
	KindResourceType   Kind = "ResourceType"
	KindAccount        Kind = "Account"
	KindPlayerCreature Kind = "PlayerCreatureObject"
)

// Result is the tagged union of objects a search hit can resolve into.
type Result interface {
	ResultKind() Kind
}

// ServerObject is a generic game-world object from the authoritative store.
type ServerObject struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	BasicName    string `json:"basicName,omitempty"`
	TemplateName string `json:"templateName,omitempty"`
	StationID    uint64 `json:"stationId,omitempty"`
	LoadWithID   string `json:"loadWithId,omitempty"`
	Deleted      bool   `json:"deleted,omitempty"`
}

// ResultKind implements Result.
func (ServerObject) ResultKind() Kind { return KindObject }

// ResourceType is a harvestable resource type.
type ResourceType struct {
	ID           string             `json:"id"`
	Name         string             `json:"name,omitempty"`
	ClassName    string             `json:"className,omitempty"`
	ClassID      string             `json:"classId,omitempty"`
	DepletedTime string             `json:"depletedTime,omitempty"`
	Attributes   map[string]float64 `json:"attributes,omitempty"`
}

// ResultKind implements Result.
func (ResourceType) ResultKind() Kind { return KindResourceType }

// Account is a player account. Accounts carry no authoritative-store row of
// their own: the station id in the search document is the whole identity.
type Account struct {
	StationID uint64 `json:"stationId"`
	Name      string `json:"name,omitempty"`
}

// ResultKind implements Result.
func (Account) ResultKind() Kind { return KindAccount }

// PlayerCreatureObject is a player-controlled creature object.
type PlayerCreatureObject struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	BasicName string `json:"basicName,omitempty"`
	StationID uint64 `json:"stationId,omitempty"`
	LastLogin string `json:"lastLogin,omitempty"`
}

// ResultKind implements Result.
func (PlayerCreatureObject) ResultKind() Kind { return KindPlayerCreature }
