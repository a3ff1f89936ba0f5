package domain

// Source is a bibliographic reference cited by other records.
type Source struct {
	ID         ID      `json:"id" validate:"required"`
	Title      string  `json:"title" validate:"required"`
	Author     string  `json:"author,omitempty"`
	License    string  `json:"license,omitempty"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

type Person struct {
	ID           ID       `json:"id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	CourtesyName string   `json:"courtesy_name,omitempty"`
	BirthYear    *int     `json:"birth_year,omitempty"`
	DeathYear    *int     `json:"death_year,omitempty"`
	Dynasty      string   `json:"dynasty,omitempty"`
	Roles        []string `json:"roles,omitempty"`
	Biography    string   `json:"biography,omitempty"`
	SourceIDs    []ID     `json:"source_ids,omitempty"`
}

type Event struct {
	ID        ID     `json:"id" validate:"required"`
	Title     string `json:"title" validate:"required"`
	StartYear *int   `json:"start_year,omitempty"`
	EndYear   *int   `json:"end_year,omitempty"`
	Dynasty   string `json:"dynasty,omitempty"`
	PlaceIDs  []ID   `json:"place_ids,omitempty"`
	PersonIDs []ID   `json:"person_ids,omitempty"`
	Summary   string `json:"summary,omitempty"`
	SourceIDs []ID   `json:"source_ids,omitempty"`
}

type Place struct {
	ID         ID       `json:"id" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	ModernName string   `json:"modern_name,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Summary    string   `json:"summary,omitempty"`
	SourceIDs  []ID     `json:"source_ids,omitempty"`
}

// Dynasty years are negative for BCE.
type Dynasty struct {
	ID        ID     `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year" validate:"gtefield=StartYear"`
	Capital   string `json:"capital,omitempty"`
	Founder   string `json:"founder,omitempty"`
	Summary   string `json:"summary,omitempty"`
	SourceIDs []ID   `json:"source_ids,omitempty"`
}

type Emperor struct {
	ID         ID       `json:"id" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	TempleName string   `json:"temple_name,omitempty"`
	EraNames   []string `json:"era_names,omitempty"`
	DynastyID  ID       `json:"dynasty_id,omitempty"`
	ReignStart *int     `json:"reign_start,omitempty"`
	ReignEnd   *int     `json:"reign_end,omitempty"`
	SourceIDs  []ID     `json:"source_ids,omitempty"`
}

type Mythology struct {
	ID        ID       `json:"id" validate:"required"`
	Title     string   `json:"title" validate:"required"`
	Category  string   `json:"category,omitempty"`
	Figures   []string `json:"figures,omitempty"`
	Summary   string   `json:"summary,omitempty"`
	SourceIDs []ID     `json:"source_ids,omitempty"`
}

// Entity is implemented by every record type.
type Entity interface {
	EntityID() ID
}

func (s Source) EntityID() ID    { return s.ID }
func (p Person) EntityID() ID    { return p.ID }
func (e Event) EntityID() ID     { return e.ID }
func (p Place) EntityID() ID     { return p.ID }
func (d Dynasty) EntityID() ID   { return d.ID }
func (e Emperor) EntityID() ID   { return e.ID }
func (m Mythology) EntityID() ID { return m.ID }
