package vals

import (
	"fmt"
	"strconv"

	"github.com/strand-sh/strand/pkg/diag"
	"github.com/strand-sh/strand/pkg/eval/errs"
)

// PathMember is one step of a cell path: either a record key or a list
// index. An optional member suppresses a missing-data failure into Nothing.
type PathMember struct {
	Key      string
	Index    int
	IsKey    bool
	Optional bool
	diag.Ranging
}

// KeyMember returns a key member.
func KeyMember(key string, r diag.Ranging) PathMember {
	return PathMember{Key: key, IsKey: true, Ranging: r}
}

// IndexMember returns an index member.
func IndexMember(i int, r diag.Ranging) PathMember {
	return PathMember{Index: i, Ranging: r}
}

// AsOptional returns a copy of the member marked optional.
func (m PathMember) AsOptional() PathMember {
	m.Optional = true
	return m
}

func (m PathMember) describe() string {
	if m.IsKey {
		return fmt.Sprintf("column %q", m.Key)
	}
	return "index " + strconv.Itoa(m.Index)
}

// Path is a structured accessor into nested records and lists.
type Path struct {
	Members []PathMember
	diag.Ranging
}

// Follow resolves the path against a value. A key member applied to a list
// maps over the list's elements, extracting the column from each row. A
// missing key or out-of-range index fails with errs.MissingData unless the
// member is optional, in which case the result is Nothing.
func Follow(v Value, p Path) (Value, error) {
	cur := v
	for _, m := range p.Members {
		next, err := followMember(cur, m)
		if err != nil {
			if m.Optional {
				return Nothing{m.Ranging}, nil
			}
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func followMember(v Value, m PathMember) (Value, error) {
	switch v := v.(type) {
	case Record:
		if !m.IsKey {
			return nil, errs.TypeMismatch{
				What: "cell path member for a record", Valid: "column name", Actual: "index"}
		}
		if val, ok := v.Get(m.Key); ok {
			return val, nil
		}
		return nil, errs.MissingData{What: m.describe()}
	case List:
		if m.IsKey {
			// Column extraction over table rows.
			items := make([]Value, len(v.Items))
			for i, row := range v.Items {
				cell, err := followMember(row, m)
				if err != nil {
					if m.Optional {
						cell = Nothing{m.Ranging}
					} else {
						return nil, err
					}
				}
				items[i] = cell
			}
			return List{items, v.Ranging}, nil
		}
		if m.Index < 0 || m.Index >= len(v.Items) {
			return nil, errs.MissingData{What: m.describe()}
		}
		return v.Items[m.Index], nil
	case Nothing:
		return nil, errs.MissingData{What: m.describe()}
	}
	return nil, errs.TypeMismatch{
		What: "cell path target", Valid: "record or list", Actual: v.Kind()}
}

// Reject returns a copy of v with the field named by the path removed. Only
// key members are supported for the final step; a key applied to a list
// removes the column from every row.
func Reject(v Value, p Path) (Value, error) {
	if len(p.Members) == 0 {
		return v, nil
	}
	last := p.Members[len(p.Members)-1]
	if !last.IsKey {
		return nil, errs.TypeMismatch{
			What: "final cell path member of reject", Valid: "column name", Actual: "index"}
	}
	return rejectAt(v, p.Members, last)
}

func rejectAt(v Value, members []PathMember, last PathMember) (Value, error) {
	if len(members) == 1 {
		return removeKey(v, last)
	}
	head, rest := members[0], members[1:]
	if l, ok := v.(List); ok && head.IsKey {
		// Descend into the column of every row.
		items := make([]Value, len(l.Items))
		for i, row := range l.Items {
			out, err := rejectAt(row, members, last)
			if err != nil {
				return nil, err
			}
			items[i] = out
		}
		return List{items, l.Ranging}, nil
	}
	inner, err := followMember(v, head)
	if err != nil {
		if head.Optional {
			return v, nil
		}
		return nil, err
	}
	replaced, err := rejectAt(inner, rest, last)
	if err != nil {
		return nil, err
	}
	return replaceMember(v, head, replaced)
}

func removeKey(v Value, m PathMember) (Value, error) {
	switch v := v.(type) {
	case Record:
		if _, ok := v.Get(m.Key); !ok && !m.Optional {
			return nil, errs.MissingData{What: m.describe()}
		}
		return v.Without(m.Key), nil
	case List:
		items := make([]Value, len(v.Items))
		for i, row := range v.Items {
			out, err := removeKey(row, m)
			if err != nil {
				return nil, err
			}
			items[i] = out
		}
		return List{items, v.Ranging}, nil
	}
	return nil, errs.TypeMismatch{
		What: "reject target", Valid: "record or list", Actual: v.Kind()}
}

func replaceMember(v Value, m PathMember, newVal Value) (Value, error) {
	switch v := v.(type) {
	case Record:
		return v.With(m.Key, newVal), nil
	case List:
		items := make([]Value, len(v.Items))
		copy(items, v.Items)
		items[m.Index] = newVal
		return List{items, v.Ranging}, nil
	}
	return nil, errs.TypeMismatch{
		What: "cell path target", Valid: "record or list", Actual: v.Kind()}
}
