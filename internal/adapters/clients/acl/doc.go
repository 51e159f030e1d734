// Package acl contains the anti-corruption layer between the quote
// builder's ports and its remote collaborators: the record store that
// persists quotes, the relay that delivers notifications, and the
// photo-analysis service that proposes line items.
//
// Each adapter owns its wire DTOs, translates external error shapes into
// domain errors, and never exposes a collaborator type above this
// package. The domain stays insulated from collaborator API changes.
package acl
