// Package widget implements the value resolver: it coerces a raw stored
// field value, or the slot's declared default, into its canonical typed
// value. The resolver is shared by the request compiler and the editing
// surface, so its contract is exact: a raw value always takes precedence,
// and the default is consulted only when the raw value is absent.
package widget
