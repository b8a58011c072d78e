package entity

import "encoding/json"

// ManifestHeader identifies the transfer. Any field may be absent when its
// anchor could not be located; present values are non-empty and trimmed.
type ManifestHeader struct {
	ManifestNumber *string `json:"manifest_number,omitempty"`
	Origin         *string `json:"origin,omitempty"`
	Destination    *string `json:"destination,omitempty"`
}

// PackageRecord is one shipped package line-item.
type PackageRecord struct {
	SequenceNumber   int         `json:"sequence_number"`
	PackageID        string      `json:"package_id"`
	ItemName         string      `json:"item_name"`
	QuantityShipped  json.Number `json:"quantity_shipped"`
	QuantityVerified bool        `json:"quantity_verified"`
	UnitOfMeasure    *string     `json:"unit_of_measure,omitempty"`
	BatchNumber      *string     `json:"batch_number,omitempty"`
	ItemDetails      *string     `json:"item_details,omitempty"`
}

// Valid reports whether the record carries the minimum required fields.
func (p PackageRecord) Valid() bool {
	return p.PackageID != "" && p.ItemName != ""
}

// StrOrEmpty dereferences an optional field.
func StrOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// StrPtr returns nil for an empty string, a pointer to s otherwise.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
