package domain

import (
	"encoding/json"
	"fmt"
)

// Transformer turns one loosely-typed asset or API item into a record.
type Transformer[T any] func(raw json.RawMessage, index int) (T, error)

// Resource describes where a record type lives in the API and in the assets.
type Resource struct {
	Name     string
	Endpoint string
	Asset    string
	IDPrefix string
}

var (
	Persons     = Resource{Name: "persons", Endpoint: "/persons", Asset: "persons", IDPrefix: "person"}
	Events      = Resource{Name: "events", Endpoint: "/events", Asset: "events", IDPrefix: "event"}
	Places      = Resource{Name: "places", Endpoint: "/places", Asset: "places", IDPrefix: "place"}
	Dynasties   = Resource{Name: "dynasties", Endpoint: "/dynasties", Asset: "dynasties", IDPrefix: "dynasty"}
	Emperors    = Resource{Name: "emperors", Endpoint: "/emperors", Asset: "emperors", IDPrefix: "emperor"}
	Mythologies = Resource{Name: "mythologies", Endpoint: "/mythologies", Asset: "mythologies", IDPrefix: "myth"}
	Sources     = Resource{Name: "sources", Endpoint: "/sources", Asset: "sources", IDPrefix: "source"}
)

// Resources lists every resource in display order.
func Resources() []Resource {
	return []Resource{Persons, Events, Places, Dynasties, Emperors, Mythologies, Sources}
}

func LookupResource(name string) (Resource, bool) {
	for _, r := range Resources() {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

func decodeEntity[T any](raw json.RawMessage, index int, prefix string, id func(*T) *ID) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %s #%d: %w", prefix, index, err)
	}
	if p := id(&v); *p == "" {
		*p = IndexID(prefix, index)
	}
	return v, nil
}

func TransformPerson(raw json.RawMessage, index int) (Person, error) {
	return decodeEntity(raw, index, Persons.IDPrefix, func(v *Person) *ID { return &v.ID })
}

func TransformEvent(raw json.RawMessage, index int) (Event, error) {
	return decodeEntity(raw, index, Events.IDPrefix, func(v *Event) *ID { return &v.ID })
}

func TransformPlace(raw json.RawMessage, index int) (Place, error) {
	return decodeEntity(raw, index, Places.IDPrefix, func(v *Place) *ID { return &v.ID })
}

func TransformDynasty(raw json.RawMessage, index int) (Dynasty, error) {
	return decodeEntity(raw, index, Dynasties.IDPrefix, func(v *Dynasty) *ID { return &v.ID })
}

func TransformEmperor(raw json.RawMessage, index int) (Emperor, error) {
	return decodeEntity(raw, index, Emperors.IDPrefix, func(v *Emperor) *ID { return &v.ID })
}

func TransformMythology(raw json.RawMessage, index int) (Mythology, error) {
	return decodeEntity(raw, index, Mythologies.IDPrefix, func(v *Mythology) *ID { return &v.ID })
}

func TransformSource(raw json.RawMessage, index int) (Source, error) {
	return decodeEntity(raw, index, Sources.IDPrefix, func(v *Source) *ID { return &v.ID })
}

func erase[T Entity](t Transformer[T]) Transformer[Entity] {
	return func(raw json.RawMessage, index int) (Entity, error) {
		v, err := t(raw, index)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

var entityTransformers = map[string]Transformer[Entity]{
	Persons.Name:     erase(TransformPerson),
	Events.Name:      erase(TransformEvent),
	Places.Name:      erase(TransformPlace),
	Dynasties.Name:   erase(TransformDynasty),
	Emperors.Name:    erase(TransformEmperor),
	Mythologies.Name: erase(TransformMythology),
	Sources.Name:     erase(TransformSource),
}

// Decode transforms and validates one item of the named resource.
func Decode(resource string, raw json.RawMessage, index int) (Entity, error) {
	t, ok := entityTransformers[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	e, err := t(raw, index)
	if err != nil {
		return nil, err
	}
	if err := Validate(e); err != nil {
		return nil, fmt.Errorf("%s %s: %w", resource, e.EntityID(), err)
	}
	return e, nil
}
