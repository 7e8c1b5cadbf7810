package lispy

import (
	"fmt"
	"os"

	"github.com/tinylib/msgp/msgp"
)

const imageVersion = 1

// node tags in an image
const (
	tagInt = iota
	tagBool
	tagSymbol
	tagQuote
	tagList
	tagLambda
	tagBuiltin
)

// Image is the on-disk form of a runtime's define'd names: a msgpack
// map {"v": version, "sum": blake2b of defs, "defs": bytes}. defs is
// a msgpack array of [name, node] pairs, each node an array whose
// first element is its tag.
type Image struct {
	Version int
	Sum     uint64
	Defs    []byte
}

var (
	_ msgp.Marshaler   = (*Image)(nil)
	_ msgp.Unmarshaler = (*Image)(nil)
)

func (z *Image) Msgsize() int {
	return 1 + msgp.StringPrefixSize + 1 + msgp.IntSize +
		msgp.StringPrefixSize + 3 + msgp.Uint64Size +
		msgp.StringPrefixSize + 4 + msgp.BytesPrefixSize + len(z.Defs)
}

func (z *Image) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	o = msgp.AppendMapHeader(o, 3)
	o = msgp.AppendString(o, "v")
	o = msgp.AppendInt(o, z.Version)
	o = msgp.AppendString(o, "sum")
	o = msgp.AppendUint64(o, z.Sum)
	o = msgp.AppendString(o, "defs")
	o = msgp.AppendBytes(o, z.Defs)
	return
}

func (z *Image) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var field []byte
	var n uint32
	n, bts, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return
	}
	for n > 0 {
		n--
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return
		}
		switch msgp.UnsafeString(field) {
		case "v":
			z.Version, bts, err = msgp.ReadIntBytes(bts)
		case "sum":
			z.Sum, bts, err = msgp.ReadUint64Bytes(bts)
		case "defs":
			z.Defs, bts, err = msgp.ReadBytesBytes(bts, z.Defs[:0])
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return
		}
	}
	o = bts
	return
}

// SaveImage writes every define'd name and its value to path. An
// existing file is never overwritten.
func (rt *Runtime) SaveImage(path string) error {
	if FileExists(path) {
		return fmt.Errorf("error: refusing to write image to existing file '%s'", path)
	}
	defs := rt.marshalDefs()
	img := &Image{Version: imageVersion, Sum: Blake2bUint64(defs), Defs: defs}
	bts, err := img.MarshalMsg(nil)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error: could not create image file '%s': '%v'", path, err)
	}
	defer f.Close()
	w := msgp.NewWriter(f)
	if _, err = w.Write(bts); err != nil {
		return err
	}
	return w.Flush()
}

// LoadImage binds the definitions saved in path into the global
// environment, as if each had been define'd again in the saved order.
func (rt *Runtime) LoadImage(path string) error {
	if !FileExists(path) {
		return fmt.Errorf("image file '%s' does not exist", path)
	}
	by, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var img Image
	if _, err = img.UnmarshalMsg(by); err != nil {
		return fmt.Errorf("image '%s' is corrupt: %v", path, err)
	}
	if img.Version != imageVersion {
		return fmt.Errorf("image '%s' has version %d, want %d", path, img.Version, imageVersion)
	}
	if sum := Blake2bUint64(img.Defs); sum != img.Sum {
		return fmt.Errorf("image '%s' checksum mismatch: stored %x, computed %x", path, img.Sum, sum)
	}
	names, vals, err := unmarshalDefs(img.Defs)
	if err != nil {
		return fmt.Errorf("image '%s' is corrupt: %v", path, err)
	}
	for i := range names {
		rt.bindGlobal(names[i], vals[i])
	}
	VPrintf("loaded %d definitions from '%s'", len(names), path)
	return nil
}

func (rt *Runtime) marshalDefs() []byte {
	o := msgp.AppendArrayHeader(nil, uint32(len(rt.userdefs)))
	for _, name := range rt.userdefs {
		val, _ := rt.global.Get(name)
		o = msgp.AppendArrayHeader(o, 2)
		o = msgp.AppendString(o, name)
		o = appendNode(o, val)
	}
	return o
}

func unmarshalDefs(bts []byte) (names []string, vals Seq, err error) {
	var n, sz uint32
	n, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return
	}
	for ; n > 0; n-- {
		sz, bts, err = msgp.ReadArrayHeaderBytes(bts)
		if err != nil {
			return
		}
		if sz != 2 {
			return nil, nil, fmt.Errorf("definition has %d fields, want 2", sz)
		}
		var name string
		var val Sexp
		name, bts, err = msgp.ReadStringBytes(bts)
		if err != nil {
			return
		}
		val, bts, err = readNode(bts)
		if err != nil {
			return
		}
		names = append(names, name)
		vals = append(vals, val)
	}
	return
}

func appendNode(o []byte, x Sexp) []byte {
	switch e := x.(type) {
	case SexpInt:
		o = msgp.AppendArrayHeader(o, 2)
		o = msgp.AppendInt(o, tagInt)
		o = msgp.AppendInt64(o, e.Val)
	case SexpBool:
		o = msgp.AppendArrayHeader(o, 2)
		o = msgp.AppendInt(o, tagBool)
		o = msgp.AppendBool(o, e.Val)
	case SexpSymbol:
		o = msgp.AppendArrayHeader(o, 2)
		o = msgp.AppendInt(o, tagSymbol)
		o = msgp.AppendString(o, e.Name)
	case SexpBuiltin:
		o = msgp.AppendArrayHeader(o, 2)
		o = msgp.AppendInt(o, tagBuiltin)
		o = msgp.AppendString(o, e.Name)
	case SexpQuote:
		o = msgp.AppendArrayHeader(o, 2)
		o = msgp.AppendInt(o, tagQuote)
		o = appendNode(o, e.Payload())
	case SexpList:
		o = msgp.AppendArrayHeader(o, 2)
		o = msgp.AppendInt(o, tagList)
		o = appendSeq(o, e.Elems())
	case SexpLambda:
		o = msgp.AppendArrayHeader(o, 4)
		o = msgp.AppendInt(o, tagLambda)
		o = appendSeq(o, e.Bound())
		params := e.Params()
		o = msgp.AppendArrayHeader(o, uint32(len(params)))
		for _, p := range params {
			o = msgp.AppendString(o, p)
		}
		o = appendNode(o, e.Body())
	default:
		o = msgp.AppendNil(o)
	}
	return o
}

func appendSeq(o []byte, s Seq) []byte {
	o = msgp.AppendArrayHeader(o, uint32(len(s)))
	for _, e := range s {
		o = appendNode(o, e)
	}
	return o
}

func readNode(bts []byte) (x Sexp, o []byte, err error) {
	var sz uint32
	sz, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return
	}
	if sz < 2 {
		return nil, bts, fmt.Errorf("node has %d fields, want at least 2", sz)
	}
	var tag int
	tag, bts, err = msgp.ReadIntBytes(bts)
	if err != nil {
		return
	}

	switch tag {
	case tagInt:
		var v int64
		v, bts, err = msgp.ReadInt64Bytes(bts)
		x = MakeInt(v)
	case tagBool:
		var v bool
		v, bts, err = msgp.ReadBoolBytes(bts)
		x = MakeBool(v)
	case tagSymbol, tagBuiltin:
		var name string
		name, bts, err = msgp.ReadStringBytes(bts)
		if tag == tagSymbol {
			x = MakeSymbol(name)
		} else {
			x = MakeBuiltin(name)
		}
	case tagQuote:
		var inner Sexp
		inner, bts, err = readNode(bts)
		if err == nil {
			x = MakeQuote(inner)
		}
	case tagList:
		var elems Seq
		elems, bts, err = readSeq(bts)
		if err == nil {
			x = MakeList(elems)
		}
	case tagLambda:
		x, bts, err = readLambda(sz, bts)
	default:
		err = fmt.Errorf("unknown node tag %d", tag)
	}
	return x, bts, err
}

func readLambda(sz uint32, bts []byte) (x Sexp, o []byte, err error) {
	if sz != 4 {
		return nil, bts, fmt.Errorf("lambda node has %d fields, want 4", sz)
	}
	var bound Seq
	bound, bts, err = readSeq(bts)
	if err != nil {
		return
	}
	var n uint32
	n, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return
	}
	params := make(Names, n)
	for i := range params {
		params[i], bts, err = msgp.ReadStringBytes(bts)
		if err != nil {
			return
		}
	}
	var body Sexp
	body, bts, err = readNode(bts)
	if err != nil {
		return
	}
	if len(bound) > len(params) {
		return nil, bts, fmt.Errorf("lambda binds %d arguments but has %d parameters", len(bound), len(params))
	}
	fn := MakeLambda(params, body)
	*fn.bound.Mut() = bound
	return fn, bts, nil
}

func readSeq(bts []byte) (s Seq, o []byte, err error) {
	var n uint32
	n, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return
	}
	s = make(Seq, 0, n)
	for ; n > 0; n-- {
		var e Sexp
		e, bts, err = readNode(bts)
		if err != nil {
			return
		}
		s = append(s, e)
	}
	return s, bts, nil
}

func FileExists(name string) bool {
	fi, err := os.Stat(name)
	if err != nil {
		return false
	}
	if fi.IsDir() {
		return false
	}
	return true
}
