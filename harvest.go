// Package harvest extracts structured records from semi-structured HTML
// listing pages. It classifies each fetched response before extraction,
// pulls typed fields out of every record fragment with a structural
// strategy and a content-shape fallback, and reports failures per item
// instead of aborting the batch.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, gin/).
package harvest
