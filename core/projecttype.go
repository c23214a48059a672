package core

import "fmt"

// ProjectType categorizes what kind of content a project is on either
// platform. The zero value is not valid; parse through ParseProjectType.
type ProjectType string

const (
	TypeMod          ProjectType = "mod"
	TypeDatapack     ProjectType = "datapack"
	TypeResourcePack ProjectType = "resourcepack"
	TypeShader       ProjectType = "shader"
)

func ParseProjectType(name string) (ProjectType, error) {
	switch ProjectType(name) {
	case TypeMod, TypeDatapack, TypeResourcePack, TypeShader:
		return ProjectType(name), nil
	}
	return "", fmt.Errorf("unknown project type %q", name)
}
