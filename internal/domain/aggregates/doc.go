// Package aggregates declares the two money-moving writes, paying for a job and
// depositing to a client, as interfaces with their inputs, results and error codes.
//
// Nothing here knows about gorm or HTTP. internal/data/aggregates implements the
// interfaces; the deposit cap arithmetic lives here so every layer shares it.
package aggregates
