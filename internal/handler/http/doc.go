// Package http implements the development change feed server.
//
// It exposes the change list, entity payloads and a health probe of an
// in-process feed, plus two write routes used to publish and delete
// entities while a client is syncing. Request tracing, access logging and
// response compression are handled by middleware in this package.
package http
