package keyedarchive

import "github.com/pbaille/recipes/internal/plist"

const (
	fieldTime    = "NS.time"
	fieldObjects = "NS.objects"
	fieldKeys    = "NS.keys"
	fieldData    = "NS.data"
	fieldString  = "NS.string"
)

type classDecoder func(d *Decoder, fields *plist.Dictionary) (plist.Value, error)

// classDecoders lists the Foundation classes the decoder can rebuild. Any
// other class with the system prefix is rejected. It is filled in init
// because the rebuild functions recurse back into the Decoder.
var classDecoders map[string]classDecoder

func init() {
	classDecoders = map[string]classDecoder{
		"NSDate":              decodeDate,
		"NSArray":             decodeArrayObject,
		"NSMutableArray":      decodeArrayObject,
		"NSSet":               decodeArrayObject,
		"NSMutableSet":        decodeArrayObject,
		"NSData":              decodeData,
		"NSMutableData":       decodeData,
		"NSDictionary":        decodeDictionaryObject,
		"NSMutableDictionary": decodeDictionaryObject,
		"NSString":            decodeString,
		"NSMutableString":     decodeString,
	}
}

func decodeDate(_ *Decoder, fields *plist.Dictionary) (plist.Value, error) {
	t, err := fields.GetReal(fieldTime)
	if err != nil {
		return nil, err
	}
	return plist.Real(t), nil
}

func decodeArrayObject(d *Decoder, fields *plist.Dictionary) (plist.Value, error) {
	objects, err := fields.GetArray(fieldObjects)
	if err != nil {
		return nil, err
	}
	return d.decodeArray(objects)
}

func decodeData(_ *Decoder, fields *plist.Dictionary) (plist.Value, error) {
	b, err := fields.GetData(fieldData)
	if err != nil {
		return nil, err
	}
	out := make(plist.Data, len(b))
	copy(out, b)
	return out, nil
}

// decodeDictionaryObject zips NS.keys with NS.objects. Extra entries in the
// longer list are dropped.
func decodeDictionaryObject(d *Decoder, fields *plist.Dictionary) (plist.Value, error) {
	keys, err := fields.GetArray(fieldKeys)
	if err != nil {
		return nil, err
	}
	values, err := fields.GetArray(fieldObjects)
	if err != nil {
		return nil, err
	}

	n := min(len(keys), len(values))
	out := plist.NewDictionary(n)
	for i := 0; i < n; i++ {
		k, err := d.DecodeValue(keys[i])
		if err != nil {
			return nil, err
		}
		key, err := plist.AsString(k)
		if err != nil {
			return nil, err
		}
		v, err := d.DecodeValue(values[i])
		if err != nil {
			return nil, err
		}
		out.Set(key, v)
	}
	return out, nil
}

func decodeString(_ *Decoder, fields *plist.Dictionary) (plist.Value, error) {
	s, err := fields.GetString(fieldString)
	if err != nil {
		return nil, err
	}
	return plist.String(s), nil
}
