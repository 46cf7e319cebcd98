// Package logging wires up the process-wide zap logger. Every component
// obtains its own named sub-logger via zap.L().Named(...).Sugar(), one
// named logger per component, realized with a structured logger instead
// of the stdlib log package.
package logging

import "go.uber.org/zap"

// Init builds and installs the global zap logger, returning a function
// that flushes buffered log entries on shutdown. dev selects a
// human-readable development encoder; production nodes want the default
// JSON encoder instead.
func Init(dev bool) (func(), error) {
	var logger *zap.Logger
	var err error
	if dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return func() {}, err
	}
	zap.ReplaceGlobals(logger)
	return func() { _ = logger.Sync() }, nil
}

// Named returns a sugared logger scoped to name, the package-level
// convenience every component uses instead of threading a logger through
// every constructor.
func Named(name string) *zap.SugaredLogger {
	return zap.L().Named(name).Sugar()
}
