// Package dialect orders and runs COBOL dialect passes over an expanded
// document.
//
// A dialect declares which dialects it must run before. Service.Order turns a
// requested list into a run order that honours those constraints and reports
// a CycleError when none exists. Service.Process then runs Extend for every
// dialect, committing the document after each one, and ProcessText for every
// dialect in the same order.
//
// The package also scores evidence of dialect-specific statements, so a
// program that uses a dialect nobody enabled can be flagged.
package dialect
