// Package sanitizer normalizes user-supplied text before validation and
// storage.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, typically by returning
// empty strings rather than errors, and leave rejection to the validators.
//
// Normalization includes:
//   - Phone numbers: Convert to E.164 format (+[country][number])
//   - Names: Collapse whitespace, trim leading/trailing spaces
//   - Labels: Names plus lowercasing, for specializations and locations
//   - Emails: Trim and lowercase
//   - Comments: Drop control characters, keep line breaks, trim each line
//   - Slices: Remove duplicates and empty values after normalization
package sanitizer
