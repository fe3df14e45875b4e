package itemstack

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Tnze/go-mc/nbt"
	"github.com/kasuganosora/lunchbox/game/attr"
)

// ErrUnsupportedAttribute is returned when an attribute value has no NBT form.
var ErrUnsupportedAttribute = errors.New("itemstack: unsupported attribute value")

// nbtTree splits a tree by leaf type so each map has a fixed NBT element type.
type nbtTree struct {
	Floats  map[string]float64 `nbt:"f"`
	Ints    map[string]int32   `nbt:"i"`
	Longs   map[string]int64   `nbt:"l"`
	Strings map[string]string  `nbt:"s"`
	Bools   map[string]int8    `nbt:"b"`
	Trees   map[string]nbtTree `nbt:"t"`
}

type nbtStack struct {
	Code       string  `nbt:"Code"`
	Count      int32   `nbt:"Count"`
	Attributes nbtTree `nbt:"Attributes"`
}

// Encode serialises s to NBT. The container tag and the resolved item type
// are not part of the encoding.
func Encode(s *Stack) ([]byte, error) {
	if s == nil {
		return nil, errors.New("itemstack: encode nil stack")
	}
	if !fitsInt32(s.Quantity) {
		return nil, fmt.Errorf("encode %s: %w: quantity %d", s.Code, ErrUnsupportedAttribute, s.Quantity)
	}
	tree, err := toNBT(s.Attributes)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", s.Code, err)
	}
	return nbt.Marshal(nbtStack{
		Code:       s.Code,
		Count:      int32(s.Quantity),
		Attributes: tree,
	})
}

// Decode parses an NBT stack. The result is unresolved; call Resolve before
// asking for its Collectible. Attribute keys come back grouped by leaf type,
// each group in lexical order.
func Decode(data []byte) (*Stack, error) {
	var raw nbtStack
	if err := nbt.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("itemstack: decode: %w", err)
	}
	if raw.Code == "" {
		return nil, errors.New("itemstack: decode: missing item code")
	}
	return &Stack{
		Code:       raw.Code,
		Quantity:   int(raw.Count),
		Attributes: fromNBT(raw.Attributes),
	}, nil
}

func toNBT(t *attr.Tree) (nbtTree, error) {
	out := nbtTree{
		Floats:  map[string]float64{},
		Ints:    map[string]int32{},
		Longs:   map[string]int64{},
		Strings: map[string]string{},
		Bools:   map[string]int8{},
		Trees:   map[string]nbtTree{},
	}
	var err error
	t.Range(func(k string, v interface{}) bool {
		switch x := v.(type) {
		case float64:
			out.Floats[k] = x
		case float32:
			out.Floats[k] = float64(x)
		case int:
			// Values past int32 keep their width as NBT longs.
			if fitsInt32(x) {
				out.Ints[k] = int32(x)
			} else {
				out.Longs[k] = int64(x)
			}
		case int32:
			out.Ints[k] = x
		case int64:
			out.Longs[k] = x
		case string:
			out.Strings[k] = x
		case bool:
			if x {
				out.Bools[k] = 1
			} else {
				out.Bools[k] = 0
			}
		case *attr.Tree:
			sub, subErr := toNBT(x)
			if subErr != nil {
				err = subErr
				return false
			}
			out.Trees[k] = sub
		default:
			err = fmt.Errorf("%w: %s (%T)", ErrUnsupportedAttribute, k, v)
			return false
		}
		return true
	})
	return out, err
}

func fitsInt32(v int) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

func fromNBT(n nbtTree) *attr.Tree {
	t := attr.NewTree()
	for _, k := range sortedKeys(n.Floats) {
		t.SetFloat(k, n.Floats[k])
	}
	for _, k := range sortedKeys(n.Ints) {
		t.SetInt(k, int(n.Ints[k]))
	}
	for _, k := range sortedKeys(n.Longs) {
		t.Set(k, n.Longs[k])
	}
	for _, k := range sortedKeys(n.Strings) {
		t.SetString(k, n.Strings[k])
	}
	for _, k := range sortedKeys(n.Bools) {
		t.SetBool(k, n.Bools[k] != 0)
	}
	for _, k := range sortedKeys(n.Trees) {
		t.Set(k, fromNBT(n.Trees[k]))
	}
	return t
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
