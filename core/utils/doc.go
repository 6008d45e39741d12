// Package utils provides small helpers shared by the url-policy-sync packages,
// such as the truncation used to attach remote response bodies to results.
package utils
