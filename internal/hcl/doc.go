// Package hcl provides the concrete HCL implementation of the profile
// loading interface defined in the `config` package. It is responsible for
// discovering profile files, parsing them, and merging their blocks over the
// built-in defaults.
package hcl
