package entities

import "fmt"

// Lockfile is the shared package-lock.json document every migrated repository
// starts from. It is read-only once parsed; use StampedFor to derive a copy.
type Lockfile struct {
	document *JSONObject
}

// ParseLockfile parses a package-lock.json document.
func ParseLockfile(data []byte) (*Lockfile, error) {
	document, err := ParseJSONObject(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lockfile: %w", err)
	}
	return &Lockfile{document: document}, nil
}

// Name returns the package name recorded in the lockfile.
func (l *Lockfile) Name() string {
	name, _ := l.document.GetString("name")
	return name
}

// StampedFor renders a copy of the lockfile whose top-level "name" is
// packageName. Every other key keeps its position and value.
func (l *Lockfile) StampedFor(packageName string) (string, error) {
	stamped := l.document.Clone()
	if err := stamped.Set("name", packageName); err != nil {
		return "", err
	}
	return stamped.Format()
}
