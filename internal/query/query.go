// Package query evaluates document-style query specifications against
// in-memory records. It replicates the subset of query semantics the shelter
// tooling relies on: plain-value equality, $in membership, and $gte/$lte
// numeric bounds. Boolean composition ($or, $not, nested queries) is not
// supported; every field clause must hold for a record to match.
package query

import (
	"reflect"
	"sort"

	"github.com/grazioso-salvare/shelter-cli/internal/model"
)

type opKind int

const (
	opEquals opKind = iota
	opIn
	opGte
	opLte
	opRaw
)

// op is a single parsed operator within a field clause.
type op struct {
	kind    opKind
	value   any     // equals / raw comparison value
	set     []any   // $in members
	bound   float64 // $gte / $lte bound
	boundOK bool    // false when the bound itself failed numeric coercion
}

// Clause is the parsed condition on one field. A clause written as an
// operator mapping may carry several operators; all of them must hold.
type Clause struct {
	Field string
	ops   []op
}

// Query is a parsed specification. The zero value matches every record.
type Query []Clause

// Parse converts a raw query mapping into clauses, once, so that matching a
// record set does not re-inspect the mapping per record. Clauses are ordered
// by field name for deterministic evaluation.
func Parse(spec map[string]any) Query {
	fields := make([]string, 0, len(spec))
	for f := range spec {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	q := make(Query, 0, len(fields))
	for _, field := range fields {
		q = append(q, parseClause(field, spec[field]))
	}
	return q
}

func parseClause(field string, raw any) Clause {
	m, ok := asOperatorMap(raw)
	if !ok {
		return Clause{Field: field, ops: []op{{kind: opEquals, value: raw}}}
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c := Clause{Field: field}
	for _, key := range keys {
		val := m[key]
		switch key {
		case "$in":
			c.ops = append(c.ops, op{kind: opIn, set: toSlice(val)})
		case "$gte":
			bound, boundOK := model.ToNumber(val)
			c.ops = append(c.ops, op{kind: opGte, bound: bound, boundOK: boundOK})
		case "$lte":
			bound, boundOK := model.ToNumber(val)
			c.ops = append(c.ops, op{kind: opLte, bound: bound, boundOK: boundOK})
		default:
			// Unrecognized operators degrade to string equality against the
			// operator's value rather than erroring.
			c.ops = append(c.ops, op{kind: opRaw, value: val})
		}
	}
	return c
}

// Matches reports whether the record satisfies every clause. A clause whose
// field is absent from the record never matches; malformed numeric input
// yields a non-match, never an error.
func (q Query) Matches(rec model.Record) bool {
	for _, c := range q {
		v, present := rec[c.Field]
		if !present {
			return false
		}
		for _, o := range c.ops {
			if !o.matches(v) {
				return false
			}
		}
	}
	return true
}

// Filter returns the records matching q, preserving input order.
func (q Query) Filter(records []model.Record) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if q.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (o op) matches(v any) bool {
	switch o.kind {
	case opEquals, opRaw:
		return model.Stringify(v) == model.Stringify(o.value)
	case opIn:
		for _, member := range o.set {
			if valuesEqual(v, member) {
				return true
			}
		}
		return false
	case opGte:
		if !o.boundOK {
			return false
		}
		n, ok := model.ToNumber(v)
		if !ok {
			n = 0
		}
		return n >= o.bound
	case opLte:
		if !o.boundOK {
			return false
		}
		n, ok := model.ToNumber(v)
		if !ok {
			n = 0
		}
		return n <= o.bound
	}
	return false
}

// valuesEqual is direct containment for $in: no string normalization, but
// numbers compare across concrete types so 52 matches 52.0.
func valuesEqual(a, b any) bool {
	an, aok := numericOnly(a)
	bn, bok := numericOnly(b)
	if aok && bok {
		return an == bn
	}
	return reflect.DeepEqual(a, b)
}

func numericOnly(v any) (float64, bool) {
	switch v.(type) {
	case float64, float32, int, int32, int64, uint, uint64:
		return model.ToNumber(v)
	}
	return 0, false
}

func asOperatorMap(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case model.Record:
		return m, true
	}
	return nil, false
}

func toSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		if v == nil {
			return nil
		}
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
