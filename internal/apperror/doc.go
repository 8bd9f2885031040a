// Package apperror defines the relay's application errors.
//
// Handlers return *AppError values; the HTTP layer maps Code to a status and
// writes {"success": false, "message": ...}. Anything that is not an
// AppError is reported as an internal error without its cause.
package apperror
