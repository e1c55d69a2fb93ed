// Package types provides identifiers and sentinel errors shared across
// geosniff components.
//
// Zero-dependency design apart from uuid: the catalog, rules and detect
// packages all import types, so nothing heavier belongs here.
package types

// TypeID identifies one entry in the resource type catalog.
// String alias enables type safety while maintaining JSON string serialization.
// Catalog IDs are stable UUIDs fixed in the catalog data, never regenerated.
type TypeID string

// DetectionID identifies one recorded detection in the audit store.
type DetectionID string
