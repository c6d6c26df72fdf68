package cache

import (
	"strconv"
	"strings"
)

// Keys derives cache keys for one entity namespace. All methods are pure:
// the same arguments always produce the same key.
//
//	id:{id}-{entity}                            by id
//	{entity}:{filters}:skip={n}:limit={m}       filtered list
//	{entity}:activos:skip={n}:limit={m}         active listing
//	{parent}:{parentID}-{entity}                one-to-many lookup
//	{entity}:{field}:{value}                    classifying field lookup
//	{entity}:{axis}:{start}-{end}               range lookup
type Keys struct {
	entity string
}

// NewKeys returns the key deriver for an entity namespace such as "espacios".
func NewKeys(entity string) Keys {
	return Keys{entity: entity}
}

// Entity returns the namespace.
func (k Keys) Entity() string {
	return k.entity
}

// ByID is the by-id key of one record.
func (k Keys) ByID(id string) string {
	return "id:" + id + "-" + k.entity
}

// List is the key of one filtered, paginated listing.
func (k Keys) List(filters any, skip, limit int) string {
	return k.entity + ":" + SerializeFilters(filters) + page(skip, limit)
}

// ListFamily is the prefix shared by every filtered listing of the entity.
// Serialized filters always open with "{" so the family never matches the
// active, field or range families.
func (k Keys) ListFamily() string {
	return k.entity + ":{"
}

// Active is the key of one page of the active (not soft-deleted) listing.
func (k Keys) Active(skip, limit int) string {
	return k.ActiveFamily() + page(skip, limit)[1:]
}

// ActiveFamily is the prefix shared by every page of the active listing.
func (k Keys) ActiveFamily() string {
	return k.entity + ":activos:"
}

// ByParent is the key listing the entity's records owned by one parent record,
// e.g. NewKeys("espacios").ByParent("edificios", id) = "edificios:{id}-espacios".
func (k Keys) ByParent(parent, parentID string) string {
	if parentID == "" {
		return ""
	}
	return parent + ":" + parentID + "-" + k.entity
}

// ByField is the key listing records whose classifying field equals value.
func (k Keys) ByField(field, value string) string {
	if value == "" {
		return ""
	}
	return k.FieldFamily(field) + value
}

// FieldFamily is the prefix of every ByField key for field.
func (k Keys) FieldFamily(field string) string {
	return k.entity + ":" + field + ":"
}

// ByRange is the key of a range lookup on axis.
func (k Keys) ByRange(axis, start, end string) string {
	return k.RangeFamily(axis) + start + "-" + end
}

// RangeFamily is the prefix of every range lookup on axis.
func (k Keys) RangeFamily(axis string) string {
	return k.entity + ":" + axis + ":"
}

func page(skip, limit int) string {
	var b strings.Builder
	b.WriteString(":skip=")
	b.WriteString(strconv.Itoa(skip))
	b.WriteString(":limit=")
	b.WriteString(strconv.Itoa(limit))
	return b.String()
}
