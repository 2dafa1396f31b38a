// Package config defines the format-agnostic run profile for the
// application, along with the Loader interface for reading profiles from
// configuration files.
//
// The profile describes how the external driver is invoked, where its output
// goes, how failures are handled, and which environment variables the job
// launcher uses to hand each worker its identity. The `config.Profile` is
// the single source of truth for the `driver` and `dispatcher` packages.
// Concrete loader implementations, such as for HCL, live in separate
// packages.
package config
