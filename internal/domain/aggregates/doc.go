// Package aggregates defines domain-facing aggregate contracts and the coded error
// taxonomy shared by every layer.
//
// Contracts describe write boundaries whose invariants must hold atomically. They do
// not depend on gorm or any transport.
package aggregates
