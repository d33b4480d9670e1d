package models

import (
	"strings"
	"time"
)

type FacilityType string

const (
	TypeKubo   FacilityType = "Kubo"
	TypeCabana FacilityType = "Cabana"
	TypeRoom   FacilityType = "Room"
	TypeHall   FacilityType = "Hall"
	TypeHouse  FacilityType = "House"
)

var FacilityTypes = []FacilityType{TypeKubo, TypeCabana, TypeRoom, TypeHall, TypeHouse}

type FacilityStatus string

const (
	FacilityAvailable   FacilityStatus = "available"
	FacilityOccupied    FacilityStatus = "occupied"
	FacilityMaintenance FacilityStatus = "maintenance"
)

var FacilityStatuses = []FacilityStatus{FacilityAvailable, FacilityOccupied, FacilityMaintenance}

// ParseFacilityType matches case-insensitively and returns the canonical spelling.
func ParseFacilityType(s string) (FacilityType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range FacilityTypes {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

func ParseFacilityStatus(s string) (FacilityStatus, bool) {
	s = strings.TrimSpace(s)
	for _, st := range FacilityStatuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

type Facility struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Type        FacilityType   `json:"type"`
	Capacity    int            `json:"capacity"`
	Price       float64        `json:"price"`
	Status      FacilityStatus `json:"status"`
	Description string         `json:"description,omitempty"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// FacilitySummary is the projection attached to booking listings.
type FacilitySummary struct {
	ID    int64        `json:"id"`
	Name  string       `json:"name"`
	Type  FacilityType `json:"type"`
	Price float64      `json:"price"`
}

func (f Facility) Summary() *FacilitySummary {
	return &FacilitySummary{ID: f.ID, Name: f.Name, Type: f.Type, Price: f.Price}
}
