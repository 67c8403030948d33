package gateway

// Field is a three-state optional argument: absent, explicitly null, or
// explicitly set. Partial-update tools need the distinction so unspecified
// fields are never overwritten with defaults.
type Field struct {
	present bool
	value   interface{}
}

// fieldFromArgs reads a three-state field from a raw argument map.
func fieldFromArgs(args map[string]interface{}, name string) Field {
	v, ok := args[name]
	if !ok {
		return Field{}
	}
	return Field{present: true, value: v}
}

// Present reports whether the caller supplied the field at all.
func (f Field) Present() bool {
	return f.present
}

// Null reports whether the caller explicitly cleared the field.
func (f Field) Null() bool {
	return f.present && f.value == nil
}

// Value returns the supplied value; only meaningful when Present and not Null.
func (f Field) Value() interface{} {
	return f.value
}
