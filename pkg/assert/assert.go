package assert

// NotNil panics when the singleton construction produced a nil value.
func NotNil(v interface{}) {
	if v == nil {
		panic("assert: unexpected nil singleton")
	}
}

// NotCircular is a marker guarding singleton accessors against re-entrant
// initialization; kept as a no-op hook for debug builds.
func NotCircular() {}
