// Package diagnostic provides structured errors and warnings for rule-file
// validation.
//
// Key capabilities:
//   - Dangling rule reference errors
//   - Conflicting identifier argument errors
//   - Shadowed or unused rule warnings
package diagnostic
