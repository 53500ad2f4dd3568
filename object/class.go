package object

import "fmt"

// Class is a malis class: a name, an optional superclass, and its own
// method table. Method lookup walks the superclass chain, the same
// single-inheritance model spec.md §3 describes.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]Function
}

func (*Class) Type() string    { return "class" }
func (c *Class) String() string { return fmt.Sprintf("<class %s>", c.Name) }

// Arity is the arity of the class's init method, or 0 if it has none
// — constructing an instance is calling the class itself.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// FindMethod looks up name on c, then walks the superclass chain.
func (c *Class) FindMethod(name string) (Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Instance is a malis object: an instance of Class with its own field
// map. Methods are not copied onto Instance; Get binds them from the
// class's method table on demand.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// NewInstance creates an Instance with an empty field map.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

func (*Instance) Type() string    { return "instance" }
func (i *Instance) String() string { return fmt.Sprintf("<class instance %s>", i.Class.Name) }

// Get reads a field or bound method off the instance. Fields shadow
// methods of the same name. A missing property is a runtime error,
// never a silent Nil — grounded on original_source/'s
// MalisInstance::get, which returns a Result rather than defaulting.
func (i *Instance) Get(name string) (Value, error) {
	if v, ok := i.Fields[name]; ok {
		return v, nil
	}
	if m, ok := i.Class.FindMethod(name); ok {
		return m.Bind(i), nil
	}
	return nil, fmt.Errorf("undefined property '%s' on instance of %s", name, i.Class.Name)
}

// Set writes (or creates) a field on the instance. Unlike Get, Set
// never fails: assigning to an unknown field name simply creates it,
// matching spec.md §3's dynamically-shaped instances.
func (i *Instance) Set(name string, value Value) {
	i.Fields[name] = value
}
