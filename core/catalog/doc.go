// Package catalog provides the vehicle types available for sizing.
//
// A catalog comes from a Source: the built-in reference data, a YAML or JSON
// file, or a SQL database registered by infra/catalog. Sources are built from
// configuration through a factory registry so the CLI and the HTTP service can
// switch between them without code changes.
package catalog
