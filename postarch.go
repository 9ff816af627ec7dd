// Package postarch archives posts published on newsletter platforms.
// Given one or more source feeds it discovers post URLs, fetches each
// post's HTML, extracts the readable article content, localizes embedded
// images, and renders the result into one or more output formats.
// Re-runs in incremental mode skip posts that are already archived.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., sqlite/,
// readability/, goquery/).
package postarch
