// Package slug turns free-form names into DNS-safe labels.
//
// It is used by organization provisioning to derive a subdomain from a
// display name. Output contains only lowercase ASCII letters, digits and
// single hyphens, never starts or ends with a hyphen, and folds common
// Latin diacritics to their ASCII base letters so that European company
// names survive the conversion:
//
//	slug.Make("Müller Kraftstoff GmbH")
//	// "muller-kraftstoff-gmbh"
//
//	slug.Make("Nordoil Retail", slug.MaxLength(63))
//	// "nordoil-retail"
//
// Characters outside the fold table collapse into a single hyphen.
// Uniqueness is not this package's concern; callers that need unique
// labels enforce it at the storage layer.
package slug
