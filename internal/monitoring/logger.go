// Package monitoring holds the diagnostic logger shared by the geomap packages.
package monitoring

import "log"

// Logf reports background events such as temp artifact creation or an HTML
// export. It defaults to log.Printf.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces Logf. Passing nil mutes diagnostics, which tests use to
// keep output quiet.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
