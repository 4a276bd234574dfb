package serialization

import (
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
	"github.com/pkg/errors"
)

// ErrUnresolved is returned when the type with given package path and name
// does not exist on the receiving side. Go erases unused types at compile
// time, so the receiver needs to import the package declaring the plan type
// it is asked to reconstruct.
var ErrUnresolved = errors.New("unresolved type")

type structDesc struct {
	PkgPath string      `json:"pkgPath"`
	Name    string      `json:"name"`
	Data    interface{} `json:"data"`
}

// SerializeStruct encodes a struct value along with its type identity, so
// that DeserializeStruct on a peer can reconstruct a value of the same
// concrete type. v must be a struct value, not a pointer.
func SerializeStruct(v interface{}) ([]byte, error) {
	typ := reflect.TypeOf(v)
	return jsoniter.Marshal(structDesc{
		PkgPath: typ.PkgPath(),
		Name:    typ.Name(),
		Data:    v,
	})
}

// DeserializeStruct reconstructs a struct serialized by SerializeStruct.
// It returns a pointer to a newly allocated value of the original type.
func DeserializeStruct(data []byte) (interface{}, error) {
	desc := new(struct {
		PkgPath string              `json:"pkgPath"`
		Name    string              `json:"name"`
		Data    jsoniter.RawMessage `json:"data"`
	})
	if err := jsoniter.Unmarshal(data, desc); err != nil {
		return nil, errors.Wrap(err, "deserialize descriptor")
	}
	typ := reflect2.TypeByPackageName(desc.PkgPath, desc.Name)
	if typ == nil {
		return nil, errors.Wrapf(ErrUnresolved, "resolve %s.(%s)", desc.PkgPath, desc.Name)
	}
	v := typ.New()
	if err := jsoniter.Unmarshal(desc.Data, v); err != nil {
		return nil, errors.Wrapf(err, "deserialize struct data %s", string(desc.Data))
	}
	return v, nil
}
