// Package output renders command results as JSON, YAML or a plain table.
//
// JSON is the default: the result records written to stdout are parsed by
// downstream automation. Logs never go through this package.
package output
