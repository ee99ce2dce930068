package infer

import (
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/valyala/fastjson"
)

// ParseSampleBodyBytes infers a schema from a single JSON sample.
func ParseSampleBodyBytes(b []byte) (*openapi3.Schema, error) {
	v, err := fastjson.ParseBytes(b)
	if err != nil {
		return nil, err
	}
	return ParseSampleBodyFastJson(v)
}

func ParseSampleBodyFastJson(v *fastjson.Value) (*openapi3.Schema, error) {
	return parseFastJsonValue(v)
}

func parseFastJsonValue(v *fastjson.Value) (*openapi3.Schema, error) {
	switch v.Type() {
	case fastjson.TypeObject:
		o, err := v.Object()
		if err != nil {
			return nil, err
		}
		return parseFastJsonObject(o)
	case fastjson.TypeArray:
		a, err := v.Array()
		if err != nil {
			return nil, err
		}
		return parseFastJsonArray(a)
	case fastjson.TypeString:
		s, err := v.StringBytes()
		if err != nil {
			return nil, err
		}
		return NewStringSchema(string(s)), nil
	case fastjson.TypeNumber:
		if _, err := v.Int64(); err == nil {
			return NewIntegerSchema(), nil
		}
		return NewNumberSchema(), nil
	case fastjson.TypeTrue, fastjson.TypeFalse:
		return NewBooleanSchema(), nil
	case fastjson.TypeNull:
		return NewNullSchema(), nil
	}

	panic("should be unreachable")
}

func parseFastJsonObject(o *fastjson.Object) (*openapi3.Schema, error) {
	ps := make(map[string]*openapi3.Schema, o.Len())

	var visitErr error
	o.Visit(func(key []byte, v *fastjson.Value) {
		if visitErr != nil {
			return
		}
		child, childErr := parseFastJsonValue(v)
		if childErr != nil {
			visitErr = childErr
			return
		}

		ps[string(key)] = child
	})

	if visitErr != nil {
		return nil, visitErr
	}

	return NewObjectSchema(ps), nil
}

func parseFastJsonArray(vs []*fastjson.Value) (*openapi3.Schema, error) {
	es := make([]*openapi3.Schema, len(vs))
	for i, v := range vs {
		e, err := parseFastJsonValue(v)
		if err != nil {
			return nil, err
		}
		es[i] = e
	}
	return NewArraySchema(es), nil
}
