// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error reporting: ActionableError
// carries the failed operation, the resource involved, and concrete
// suggestions, while the issue catalog renders markdown cards for the fatal
// configuration failures a repub run can hit before scanning begins.
package issue
