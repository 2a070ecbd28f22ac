// Package registry maps the strategy names used in worker configuration
// (e.g. empty_context = "host-require") to the Go values implementing them.
//
// During application startup the registry is populated by the core
// modules and then validated against the loaded configuration, so that a
// misspelled strategy name fails before any worker is built.
package registry
