// Package middleware provides HTTP middleware for the chatops processor API:
// request IDs, security headers, body size limits and request metrics.
package middleware
