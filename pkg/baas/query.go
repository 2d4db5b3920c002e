package baas

import (
	json "github.com/json-iterator/go"
)

// Query is a single filter, ordering or paging clause sent in queries[]
type Query struct {
	Method    string        `json:"method"`
	Attribute string        `json:"attribute,omitempty"`
	Values    []interface{} `json:"values,omitempty"`
}

// String encodes the query in its wire form
func (q Query) String() string {
	data, err := json.Marshal(q)
	if err != nil {
		return ""
	}
	return string(data)
}

func stringValues(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// Equal matches documents whose attribute equals any of values
func Equal(attribute string, values ...string) Query {
	return Query{Method: "equal", Attribute: attribute, Values: stringValues(values)}
}

// EqualBool matches a boolean attribute
func EqualBool(attribute string, value bool) Query {
	return Query{Method: "equal", Attribute: attribute, Values: []interface{}{value}}
}

// NotEqual excludes documents whose attribute equals value
func NotEqual(attribute string, value string) Query {
	return Query{Method: "notEqual", Attribute: attribute, Values: []interface{}{value}}
}

// Search runs a full-text search against an indexed attribute
func Search(attribute, term string) Query {
	return Query{Method: "search", Attribute: attribute, Values: []interface{}{term}}
}

// StartsWith matches string attributes with the given prefix
func StartsWith(attribute, prefix string) Query {
	return Query{Method: "startsWith", Attribute: attribute, Values: []interface{}{prefix}}
}

// Contains matches array attributes containing any of values
func Contains(attribute string, values ...string) Query {
	return Query{Method: "contains", Attribute: attribute, Values: stringValues(values)}
}

// IsNull matches documents where the attribute is unset
func IsNull(attribute string) Query {
	return Query{Method: "isNull", Attribute: attribute}
}

// OrderAsc sorts ascending by attribute
func OrderAsc(attribute string) Query {
	return Query{Method: "orderAsc", Attribute: attribute}
}

// OrderDesc sorts descending by attribute
func OrderDesc(attribute string) Query {
	return Query{Method: "orderDesc", Attribute: attribute}
}

// Limit caps the number of returned documents
func Limit(n int) Query {
	return Query{Method: "limit", Values: []interface{}{n}}
}

// Offset skips the first n documents
func Offset(n int) Query {
	return Query{Method: "offset", Values: []interface{}{n}}
}

// CursorAfter pages forward from the given document id
func CursorAfter(documentID string) Query {
	return Query{Method: "cursorAfter", Values: []interface{}{documentID}}
}

// CursorBefore pages backward from the given document id
func CursorBefore(documentID string) Query {
	return Query{Method: "cursorBefore", Values: []interface{}{documentID}}
}

// Select restricts the returned attributes
func Select(attributes ...string) Query {
	return Query{Method: "select", Values: stringValues(attributes)}
}

// Attribute names the BaaS sets on every document
const (
	AttrID        = "$id"
	AttrCreatedAt = "$createdAt"
	AttrUpdatedAt = "$updatedAt"
)
