// Package model defines the in-memory building model the engine validates.
//
// Models are produced by an upstream extraction layer (BIM/SVG import) and
// are read-only to the engine: a validation run never mutates the model, so
// validating independent models concurrently is safe.
package model
