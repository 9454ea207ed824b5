package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationKind describes what argument a command takes and which selection
// precondition must hold before it can run.
type ValidationKind int

const (
	None ValidationKind = iota
	SearchInputText
	ActiveEntity
	EntityList
	ActiveTransformLikeEntity
	TransformLikeEntityList
	ActiveGenericObject
	GenericObjectList
)

var validationNames = []string{
	None:                      "none",
	SearchInputText:           "search-input",
	ActiveEntity:              "active-entity",
	EntityList:                "entities",
	ActiveTransformLikeEntity: "active-transform",
	TransformLikeEntityList:   "transforms",
	ActiveGenericObject:       "active-object",
	GenericObjectList:         "objects",
}

func (v ValidationKind) String() string {
	if v >= 0 && int(v) < len(validationNames) {
		return validationNames[v]
	}
	return fmt.Sprintf("validation(%d)", int(v))
}

// NeedsSelection reports whether the kind requires selection state.
func (v ValidationKind) NeedsSelection() bool {
	return v != None && v != SearchInputText
}

// IsList reports whether the kind passes a list of objects.
func (v ValidationKind) IsList() bool {
	return v == EntityList || v == TransformLikeEntityList || v == GenericObjectList
}

// ParamType is the declared type of a command parameter.
type ParamType string

const (
	ParamString    ParamType = "string"
	ParamEntity    ParamType = "entity"
	ParamTransform ParamType = "transform"
	ParamObject    ParamType = "object"
)

// Param is the declared shape of a single command parameter.
type Param struct {
	Name string    `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty"`
	Type ParamType `yaml:"type" json:"type" toml:"type"`
	List bool      `yaml:"list,omitempty" json:"list,omitempty" toml:"list,omitempty"`
}

func (p Param) String() string {
	if p.List {
		return "[]" + string(p.Type)
	}
	return string(p.Type)
}

var (
	// ErrTooManyParameters is reported for commands declaring more than one parameter.
	ErrTooManyParameters = errors.New("command declares more than one parameter")
	// ErrUnsupportedParameter is reported for parameter shapes no validation kind covers.
	ErrUnsupportedParameter = errors.New("unsupported parameter type")
)

// InferValidation maps the declared parameters of a command to its validation
// kind. Zero parameters is None. The transform-like type is checked before the
// entity type, which is checked before the generic object type, so the most
// specific kind wins.
func InferValidation(params []Param) (ValidationKind, error) {
	switch len(params) {
	case 0:
		return None, nil
	case 1:
	default:
		return None, fmt.Errorf("%w: got %d", ErrTooManyParameters, len(params))
	}
	p := params[0]
	switch ParamType(strings.ToLower(string(p.Type))) {
	case ParamString:
		if p.List {
			break
		}
		return SearchInputText, nil
	case ParamTransform:
		if p.List {
			return TransformLikeEntityList, nil
		}
		return ActiveTransformLikeEntity, nil
	case ParamEntity:
		if p.List {
			return EntityList, nil
		}
		return ActiveEntity, nil
	case ParamObject:
		if p.List {
			return GenericObjectList, nil
		}
		return ActiveGenericObject, nil
	}
	return None, fmt.Errorf("%w: %s", ErrUnsupportedParameter, p)
}
