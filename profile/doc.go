// Package profile groups the durable advisor.ProfileStore implementations.
//
// The sqlite subpackage keeps profiles in a local database file and is the default
// for single-node deployments. The postgres subpackage targets a shared server.
// Both store preferences and history as the opaque JSON text they receive.
package profile

// TableName is the default table holding user profiles.
const TableName = "user_profiles"
