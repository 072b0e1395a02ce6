package qdrant

import "github.com/qdrant/go-client/qdrant"

// fromPayload converts a Qdrant payload into plain Go values.
func fromPayload(payload map[string]*qdrant.Value) map[string]any {
	if len(payload) == 0 {
		return nil
	}
	m := make(map[string]any, len(payload))
	for k, v := range payload {
		m[k] = fromValue(v)
	}
	return m
}

// fromValue converts *qdrant.Value to any.
func fromValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return v.GetStringValue()
	case *qdrant.Value_DoubleValue:
		return v.GetDoubleValue()
	case *qdrant.Value_IntegerValue:
		return v.GetIntegerValue()
	case *qdrant.Value_BoolValue:
		return v.GetBoolValue()
	case *qdrant.Value_StructValue:
		st := v.GetStructValue()
		if st == nil {
			return nil
		}
		return fromPayload(st.Fields)
	case *qdrant.Value_ListValue:
		list := v.GetListValue()
		if list == nil {
			return nil
		}
		result := make([]any, len(list.Values))
		for i, item := range list.Values {
			result[i] = fromValue(item)
		}
		return result
	default:
		return nil
	}
}
