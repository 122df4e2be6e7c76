// Package services holds the business logic behind the HTTP controllers.
//
// AuthService owns accounts and token issue. EventService owns the event
// lifecycle, capacity accounting and the waitlist. Both are concrete types;
// controllers depend on the narrow interfaces they declare themselves.
package services
