package glint

import (
	"reflect"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
	"unsafe"
)

// identityEqual reports whether prev and next are the same value in the
// identity sense: == for comparable values, the same object for funcs, maps,
// and slices. Values that are merely deep-equal are NOT identity-equal; that
// distinction is the whole point of the unstable classification.
func identityEqual(prev, next any) bool {
	if prev == nil || next == nil {
		return prev == nil && next == nil
	}
	ta, tb := reflect.TypeOf(prev), reflect.TypeOf(next)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return prev == next
	}
	switch ta.Kind() {
	case reflect.Func:
		// Funcs are pointer-shaped, so the interface data word is the
		// closure object itself. Two closures created at the same source
		// line but allocated separately compare false here; their
		// serializations still match (see serializeValue), which is what
		// flags them as unstable.
		return ifaceDataWord(prev) == ifaceDataWord(next)
	case reflect.Map:
		return reflect.ValueOf(prev).Pointer() == reflect.ValueOf(next).Pointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(prev), reflect.ValueOf(next)
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	default:
		// Non-comparable structs, arrays of funcs, and friends: no identity.
		return false
	}
}

// ifaceDataWord extracts the data pointer of an interface value. Only
// meaningful for pointer-shaped dynamic types.
func ifaceDataWord(v any) uintptr {
	return (*[2]uintptr)(unsafe.Pointer(&v))[1]
}

// compositeKind reports whether v is function-like or object-like: the kinds
// that get reallocated per pass and are therefore candidates for the
// unstable classification. Scalars and strings never qualify.
func compositeKind(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Func, reflect.Map, reflect.Slice, reflect.Array,
		reflect.Struct, reflect.Pointer:
		return true
	}
	return false
}

// looksUnstable reports whether a change smells like a stability problem:
// both values are composite and their structural serializations coincide,
// meaning the value was rebuilt identically rather than reused.
func looksUnstable(prev, next any) bool {
	return compositeKind(prev) && compositeKind(next) &&
		serializeValue(prev) == serializeValue(next)
}

// Serialization bounds. The output is a fingerprint, not an encoding; small
// caps keep it cheap on hot paths and safe on cyclic values.
const (
	serializeMaxDepth = 3
	serializeMaxElems = 8
	serializeMaxLen   = 256
)

// serializeValue renders v as a short deterministic structural string: map
// keys sorted, depth and element counts bounded, funcs rendered by their
// defining source position so closures from the same source line serialize
// identically. Used only to compare shapes, never to round-trip data.
func serializeValue(v any) string {
	var b strings.Builder
	writeValue(&b, reflect.ValueOf(v), 0)
	return truncate(b.String(), serializeMaxLen)
}

func writeValue(b *strings.Builder, v reflect.Value, depth int) {
	if !v.IsValid() {
		b.WriteString("nil")
		return
	}
	switch v.Kind() {
	case reflect.Bool:
		b.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		b.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case reflect.Complex64, reflect.Complex128:
		b.WriteString(strconv.FormatComplex(v.Complex(), 'g', -1, 128))
	case reflect.String:
		b.WriteString(strconv.Quote(v.String()))
	case reflect.Func:
		writeFuncName(b, v)
	case reflect.Interface:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		writeValue(b, v.Elem(), depth)
	case reflect.Pointer:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		if depth >= serializeMaxDepth {
			b.WriteString("&…")
			return
		}
		b.WriteByte('&')
		writeValue(b, v.Elem(), depth+1)
	case reflect.Map:
		writeMap(b, v, depth)
	case reflect.Slice, reflect.Array:
		writeList(b, v, depth)
	case reflect.Struct:
		writeStruct(b, v, depth)
	default:
		// Chans and unsafe pointers carry no useful structure.
		b.WriteString(v.Kind().String())
	}
}

func writeMap(b *strings.Builder, v reflect.Value, depth int) {
	if v.IsNil() {
		b.WriteString("nil")
		return
	}
	if depth >= serializeMaxDepth {
		b.WriteString("map{…}")
		return
	}
	keys := v.MapKeys()
	type pair struct {
		text string
		key  reflect.Value
	}
	pairs := make([]pair, 0, len(keys))
	for _, k := range keys {
		var kb strings.Builder
		writeValue(&kb, k, depth+1)
		pairs = append(pairs, pair{text: kb.String(), key: k})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].text < pairs[j].text })
	b.WriteString("map{")
	for i, p := range pairs {
		if i == serializeMaxElems {
			b.WriteString(" …")
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.text)
		b.WriteByte(':')
		writeValue(b, v.MapIndex(p.key), depth+1)
	}
	b.WriteByte('}')
}

func writeList(b *strings.Builder, v reflect.Value, depth int) {
	if v.Kind() == reflect.Slice && v.IsNil() {
		b.WriteString("nil")
		return
	}
	if depth >= serializeMaxDepth {
		b.WriteString("[…]")
		return
	}
	b.WriteByte('[')
	n := v.Len()
	for i := 0; i < n; i++ {
		if i == serializeMaxElems {
			b.WriteString(" …")
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		writeValue(b, v.Index(i), depth+1)
	}
	b.WriteByte(']')
}

func writeStruct(b *strings.Builder, v reflect.Value, depth int) {
	if depth >= serializeMaxDepth {
		b.WriteString("{…}")
		return
	}
	t := v.Type()
	b.WriteString(t.Name())
	b.WriteByte('{')
	n := v.NumField()
	for i := 0; i < n; i++ {
		if i == serializeMaxElems {
			b.WriteString(" …")
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Field(i).Name)
		b.WriteByte(':')
		writeValue(b, v.Field(i), depth+1)
	}
	b.WriteByte('}')
}

// writeFuncName renders a func by the source position of its body, not by
// which compiled symbol the pointer landed in: the inliner clones a function
// literal per inlined call site under distinct ".funcN" ordinals, while
// every clone keeps the literal's file and line. The symbol, stripped of
// those ordinals and of the import path, stays in front for readability.
// Method values carry their -fm wrapper name, so the same method bound to
// different receivers also serializes identically.
func writeFuncName(b *strings.Builder, v reflect.Value) {
	if v.IsNil() {
		b.WriteString("nil")
		return
	}
	pc := v.Pointer()
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		b.WriteString("func")
		return
	}
	name := trimCloneOrdinals(fn.Name())
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	b.WriteString("func ")
	b.WriteString(name)
	if file, line := fn.FileLine(pc); line > 0 {
		if i := strings.LastIndexByte(file, '/'); i >= 0 {
			file = file[i+1:]
		}
		b.WriteByte(' ')
		b.WriteString(file)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(line))
	}
}

// trimCloneOrdinals strips the trailing ".funcN" segments (and the bare
// numeric segments of nested literals) that the compiler appends to
// function-literal symbols. Inline clones of one literal differ only in
// these ordinals.
func trimCloneOrdinals(name string) string {
	for {
		i := strings.LastIndexByte(name, '.')
		if i < 0 || !cloneOrdinal(name[i+1:]) {
			return name
		}
		name = name[:i]
	}
}

func cloneOrdinal(seg string) bool {
	seg = strings.TrimPrefix(seg, "func")
	if seg == "" {
		return false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return false
		}
	}
	return true
}

// truncate caps s at max bytes without splitting a rune, appending an
// ellipsis when cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "…"
}
