// Package introspect describes the structural queries the resolvers make about
// the code under test: which classes, interfaces, methods and functions exist,
// and what methods a class exposes.
package introspect

// Visibility of a method.
type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Private   Visibility = "private"
)

// Method describes one method in a class's inventory, inherited methods included.
type Method struct {
	Name           string
	DeclaringClass string
	Static         bool
	Visibility     Visibility
}

// IsPublic returns true for public methods. An empty visibility counts as public.
func (m Method) IsPublic() bool {
	return m.Visibility == Public || m.Visibility == ""
}

// Inspector answers structural questions about loaded code.
//
// Methods returns an error wrapping testmeta.ErrClassNotFound when the class
// is not loaded.
type Inspector interface {
	ClassExists(className string) bool
	InterfaceExists(name string) bool
	MethodExists(className, methodName string) bool
	FunctionExists(name string) bool
	Methods(className string) ([]Method, error)
}
