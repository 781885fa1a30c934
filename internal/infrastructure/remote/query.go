package remote

import "encoding/json"

// Query is one filter, ordering or pagination clause of a document list
// request. Queries travel on the wire as JSON strings in the "queries[]"
// parameter, matching the backend's query protocol.
type Query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

// Equal matches documents whose attribute equals any of the values.
func Equal(attribute string, values ...any) Query {
	return Query{Method: "equal", Attribute: attribute, Values: values}
}

// NotEqual matches documents whose attribute differs from the value.
func NotEqual(attribute string, value any) Query {
	return Query{Method: "notEqual", Attribute: attribute, Values: []any{value}}
}

// LessThan matches documents whose attribute is strictly below the value.
func LessThan(attribute string, value any) Query {
	return Query{Method: "lessThan", Attribute: attribute, Values: []any{value}}
}

// GreaterThanEqual matches documents whose attribute is at or above the value.
func GreaterThanEqual(attribute string, value any) Query {
	return Query{Method: "greaterThanEqual", Attribute: attribute, Values: []any{value}}
}

// LessThanEqual matches documents whose attribute is at or below the value.
func LessThanEqual(attribute string, value any) Query {
	return Query{Method: "lessThanEqual", Attribute: attribute, Values: []any{value}}
}

// IsNotNull matches documents whose attribute is set.
func IsNotNull(attribute string) Query {
	return Query{Method: "isNotNull", Attribute: attribute}
}

// Or matches documents satisfying at least one of the nested queries.
func Or(queries ...Query) Query {
	return Query{Method: "or", Values: nested(queries)}
}

// And matches documents satisfying all of the nested queries.
func And(queries ...Query) Query {
	return Query{Method: "and", Values: nested(queries)}
}

// Limit caps the number of documents returned.
func Limit(n int) Query {
	return Query{Method: "limit", Values: []any{n}}
}

// Offset skips the first n matching documents.
func Offset(n int) Query {
	return Query{Method: "offset", Values: []any{n}}
}

// OrderAsc sorts results by the attribute, ascending.
func OrderAsc(attribute string) Query {
	return Query{Method: "orderAsc", Attribute: attribute}
}

// String returns the wire form of the query.
func (q Query) String() string {
	b, _ := json.Marshal(q)
	return string(b)
}

func nested(queries []Query) []any {
	values := make([]any, len(queries))
	for i, q := range queries {
		values[i] = q
	}
	return values
}
