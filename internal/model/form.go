package model

// FormFields holds submitted field values keyed by field name.
// A missing key means the client did not send the field at all,
// which is distinct from a key present with an empty value.
type FormFields map[string]string

// Lookup returns the value of name and whether it was sent.
func (f FormFields) Lookup(name string) (string, bool) {
	if f == nil {
		return "", false
	}
	v, ok := f[name]
	return v, ok
}

// Truthy returns the value of name only when it was sent with a non-empty value.
func (f FormFields) Truthy(name string) (string, bool) {
	v, ok := f.Lookup(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
