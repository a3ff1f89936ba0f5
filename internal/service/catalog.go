package service

import (
	"context"
	"fmt"
	"time"

	"github.com/indredK/history-sub002/internal/datasource"
	"github.com/indredK/history-sub002/internal/domain"
	"github.com/indredK/history-sub002/internal/fallback"
)

// Payload is a type-erased service result.
type Payload struct {
	Data   any
	Source datasource.Source
}

// Resource is the view of a Unified service used by HTTP handlers.
type Resource interface {
	Name() string
	List(ctx context.Context) (Payload, error)
	Get(ctx context.Context, id string) (Payload, error)
}

// Catalog holds every resource service. They all share one fallback manager.
type Catalog struct {
	Persons     *Unified[domain.Person]
	Events      *Unified[domain.Event]
	Places      *Unified[domain.Place]
	Dynasties   *Unified[domain.Dynasty]
	Emperors    *Unified[domain.Emperor]
	Mythologies *Unified[domain.Mythology]
	Sources     *Unified[domain.Source]

	mode     datasource.Mode
	fallback *fallback.Manager
	byName   map[string]Resource
	order    []string
}

func NewCatalog(deps Deps) *Catalog {
	c := &Catalog{
		Persons:     NewUnified(deps, Definition[domain.Person]{Resource: domain.Persons, Transform: domain.TransformPerson, EnableGetByID: true}),
		Events:      NewUnified(deps, Definition[domain.Event]{Resource: domain.Events, Transform: domain.TransformEvent, EnableGetByID: true}),
		Places:      NewUnified(deps, Definition[domain.Place]{Resource: domain.Places, Transform: domain.TransformPlace, EnableGetByID: true}),
		Dynasties:   NewUnified(deps, Definition[domain.Dynasty]{Resource: domain.Dynasties, Transform: domain.TransformDynasty, EnableGetByID: true}),
		Emperors:    NewUnified(deps, Definition[domain.Emperor]{Resource: domain.Emperors, Transform: domain.TransformEmperor, EnableGetByID: true}),
		Mythologies: NewUnified(deps, Definition[domain.Mythology]{Resource: domain.Mythologies, Transform: domain.TransformMythology, EnableGetByID: true}),
		Sources:     NewUnified(deps, Definition[domain.Source]{Resource: domain.Sources, Transform: domain.TransformSource}),
		mode:        deps.Mode,
		fallback:    deps.Fallback,
		byName:      make(map[string]Resource),
	}
	for _, r := range []Resource{c.Persons, c.Events, c.Places, c.Dynasties, c.Emperors, c.Mythologies, c.Sources} {
		c.byName[r.Name()] = r
		c.order = append(c.order, r.Name())
	}
	return c
}

func (c *Catalog) Resource(name string) (Resource, error) {
	r, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownResource, name)
	}
	return r, nil
}

func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

func (c *Catalog) Mode() datasource.Mode {
	return c.mode
}

// FallbackStatus is the fallback part of APIStatus.
type FallbackStatus struct {
	IsActive     bool                      `json:"isActive"`
	FailureCount int                       `json:"failureCount"`
	LastError    *fallback.ClassifiedError `json:"lastError"`
	ActivatedAt  *time.Time                `json:"activatedAt,omitempty"`
	Config       fallback.Config           `json:"config"`
}

// APIStatus is what status displays poll.
type APIStatus struct {
	Mode     datasource.Mode `json:"mode"`
	Fallback FallbackStatus  `json:"fallback"`
}

func (c *Catalog) Status() APIStatus {
	return APIStatus{Mode: c.mode, Fallback: statusFromSnapshot(c.fallback.GetState())}
}

func statusFromSnapshot(s fallback.Snapshot) FallbackStatus {
	st := FallbackStatus{
		IsActive:     s.IsActive,
		FailureCount: s.FailureCount,
		LastError:    s.LastError,
		Config:       s.Config,
	}
	if s.IsActive {
		at := s.ActivatedAt
		st.ActivatedAt = &at
	}
	return st
}

func (c *Catalog) Control() *FallbackControl {
	return &FallbackControl{manager: c.fallback}
}

// FallbackControl exposes the imperative controls of the shared manager.
// Every method returns the resulting status.
type FallbackControl struct {
	manager *fallback.Manager
}

func (fc *FallbackControl) Activate() FallbackStatus {
	fc.manager.ManualActivate()
	return fc.GetState()
}

func (fc *FallbackControl) Deactivate() FallbackStatus {
	fc.manager.ManualDeactivate()
	return fc.GetState()
}

func (fc *FallbackControl) Reset() FallbackStatus {
	fc.manager.Reset()
	return fc.GetState()
}

func (fc *FallbackControl) UpdateConfig(u fallback.ConfigUpdate) FallbackStatus {
	fc.manager.UpdateConfig(u)
	return fc.GetState()
}

func (fc *FallbackControl) GetState() FallbackStatus {
	return statusFromSnapshot(fc.manager.GetState())
}
