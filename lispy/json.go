package lispy

import (
	"bytes"
	"fmt"
	"math"
	"reflect"

	"github.com/ugorji/go/codec"
)

/*
 Conversion map

 lisp <--(1)--> Go interface{} <--(2)--> json

 (1) SexpToGo() / GoToSexp(), herein.
 (2) GoToJson() / JsonToGo(), by ugorji/go/codec.

 Integers and booleans map to json numbers and booleans, lists to
 arrays. Everything else becomes a single-key object naming its
 kind: {"symbol":"x"}, {"quote":...}, {"builtin":"car"} and
 {"lambda":{"params":[...],"bound":[...],"body":...}}.
*/

type jsonHelper struct {
	initialized bool
	jh          codec.JsonHandle
}

func (m *jsonHelper) init() {
	if m.initialized {
		return
	}
	m.jh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	m.jh.SignedInteger = true
	m.jh.Canonical = true // sort maps before writing them
	m.initialized = true
}

var jsHelper jsonHelper

func init() {
	jsHelper.init()
}

// sexp -> json
func SexpToJson(x Sexp) (string, error) {
	by, err := GoToJson(SexpToGo(x))
	if err != nil {
		return "", err
	}
	return string(by), nil
}

// json -> sexp
func JsonToSexp(json []byte) (Sexp, error) {
	iface, err := JsonToGo(json)
	if err != nil {
		return nil, err
	}
	return GoToSexp(iface)
}

// go -> json
func GoToJson(iface interface{}) ([]byte, error) {
	var w bytes.Buffer
	encoder := codec.NewEncoder(&w, &jsHelper.jh)
	err := encoder.Encode(&iface)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// json -> go
func JsonToGo(json []byte) (interface{}, error) {
	var iface interface{}
	decoder := codec.NewDecoderBytes(json, &jsHelper.jh)
	err := decoder.Decode(&iface)
	if err != nil {
		return nil, err
	}
	VPrintf("decoded type : %T", iface)
	return iface, nil
}

func SexpToGo(x Sexp) interface{} {
	switch e := x.(type) {
	case SexpInt:
		return e.Val
	case SexpBool:
		return e.Val
	case SexpSymbol:
		return map[string]interface{}{"symbol": e.Name}
	case SexpBuiltin:
		return map[string]interface{}{"builtin": e.Name}
	case SexpQuote:
		return map[string]interface{}{"quote": SexpToGo(e.Payload())}
	case SexpList:
		return seqToGo(e.Elems())
	case SexpLambda:
		params := make([]interface{}, 0, len(e.Params()))
		for _, p := range e.Params() {
			params = append(params, p)
		}
		return map[string]interface{}{
			"lambda": map[string]interface{}{
				"params": params,
				"bound":  seqToGo(e.Bound()),
				"body":   SexpToGo(e.Body()),
			},
		}
	}
	return nil
}

func seqToGo(s Seq) []interface{} {
	out := make([]interface{}, 0, len(s))
	for _, e := range s {
		out = append(out, SexpToGo(e))
	}
	return out
}

// GoToSexp converts the output of JsonToGo back into an expression.
func GoToSexp(iface interface{}) (Sexp, error) {
	return decodeGoToSexpHelper(iface, 0)
}

func decodeGoToSexpHelper(r interface{}, depth int) (Sexp, error) {
	switch val := r.(type) {
	case int64:
		return MakeInt(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, ParseError("json integer %d out of range", val)
		}
		return MakeInt(int64(val)), nil
	case float64:
		if val != math.Trunc(val) || val < math.MinInt64 || val >= math.MaxInt64 {
			return nil, ParseError("json number %v is not an integer", val)
		}
		return MakeInt(int64(val)), nil
	case bool:
		return MakeBool(val), nil
	case []interface{}:
		s, err := decodeSeq(val, depth)
		if err != nil {
			return nil, err
		}
		return MakeList(s), nil
	case map[string]interface{}:
		return decodeTagged(val, depth)
	}
	return nil, ParseError("cannot convert json value of type %T at depth %d", r, depth)
}

func decodeSeq(val []interface{}, depth int) (Seq, error) {
	s := make(Seq, 0, len(val))
	for i := range val {
		e, err := decodeGoToSexpHelper(val[i], depth+1)
		if err != nil {
			return nil, err
		}
		s = append(s, e)
	}
	return s, nil
}

func decodeTagged(m map[string]interface{}, depth int) (Sexp, error) {
	if len(m) != 1 {
		return nil, ParseError("json object must have exactly one key, got %d", len(m))
	}
	for tag, v := range m {
		switch tag {
		case "symbol", "builtin":
			name, ok := v.(string)
			if !ok {
				return nil, ParseError("json %s must be a string, got %T", tag, v)
			}
			if tag == "symbol" {
				return MakeSymbol(name), nil
			}
			return MakeBuiltin(name), nil
		case "quote":
			inner, err := decodeGoToSexpHelper(v, depth+1)
			if err != nil {
				return nil, err
			}
			return MakeQuote(inner), nil
		case "lambda":
			return decodeLambda(v, depth)
		default:
			return nil, ParseError("unknown json tag '%s'", tag)
		}
	}
	return nil, InternalError("unreachable")
}

func decodeLambda(v interface{}, depth int) (Sexp, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, ParseError("json lambda must be an object, got %T", v)
	}
	rawParams, _ := m["params"].([]interface{})
	params := make(Names, 0, len(rawParams))
	for _, p := range rawParams {
		name, ok := p.(string)
		if !ok {
			return nil, ParseError("json lambda parameter must be a string, got %T", p)
		}
		params = append(params, name)
	}
	body, err := decodeGoToSexpHelper(m["body"], depth+1)
	if err != nil {
		return nil, err
	}
	rawBound, _ := m["bound"].([]interface{})
	bound, err := decodeSeq(rawBound, depth)
	if err != nil {
		return nil, err
	}
	if len(bound) > len(params) {
		return nil, ParseError("json lambda binds %d arguments but has %d parameters",
			len(bound), len(params))
	}
	fn := MakeLambda(params, body)
	*fn.bound.Mut() = bound
	return fn, nil
}

// JsonString renders x for the -json flag and the .json command.
func JsonString(x Sexp) string {
	s, err := SexpToJson(x)
	if err != nil {
		return fmt.Sprintf("json error: %v", err)
	}
	return s
}
