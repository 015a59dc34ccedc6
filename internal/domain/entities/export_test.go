package entities

// ResolveToken exports resolveToken for testing.
var ResolveToken = resolveToken //nolint:gochecknoglobals // test export

// ValidateSettings exports validateSettings for testing.
var ValidateSettings = validateSettings //nolint:gochecknoglobals // test export
