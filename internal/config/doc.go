// Package config defines the format-agnostic packaging model: which
// workers to build, where their compiled graphs live and how their output
// is named. The Loader interface abstracts the configuration format;
// the HCL implementation lives in hcl_adapter.
//
// The Model is the single source of truth for the bundler.
package config
