package enums

import "fmt"

// Model3DType identifies the format of an optional 3D asset attached to a product.
type Model3DType string

const (
	Model3DTypeGLTF Model3DType = "gltf"
	Model3DTypeGLB  Model3DType = "glb"
	Model3DTypeOBJ  Model3DType = "obj"
)

var validModel3DTypes = []Model3DType{
	Model3DTypeGLTF,
	Model3DTypeGLB,
	Model3DTypeOBJ,
}

// String implements fmt.Stringer.
func (m Model3DType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known Model3DType.
func (m Model3DType) IsValid() bool {
	for _, candidate := range validModel3DTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseModel3DType converts raw input into a Model3DType.
func ParseModel3DType(value string) (Model3DType, error) {
	for _, candidate := range validModel3DTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid 3d model type %q", value)
}
