// Package domain contains the core domain entities and value objects for sendwave.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (HTTP, SQLite, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [Candidate]: An eligible recipient yielded by the resolver
//   - [CampaignKey]: The (campaign id, template) identity sends are deduplicated by
//   - [SendRecord]: The durable outcome of one delivery attempt
//   - [AttemptResult]: The resolved outcome of the delivery attempt machine
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
