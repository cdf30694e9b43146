// Package jurisdiction maps building locations to applicable code rule
// sets. Matching works from a country-keyed mapping table with built-in
// defaults that deployments overlay from a JSON or YAML file. Each match
// carries a confidence and a level describing how specific it is.
package jurisdiction
