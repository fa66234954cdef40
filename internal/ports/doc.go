// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [ContactDirectory]: Pages contacts, folders and lists from the directory service
//   - [TemplateSender]: Sends one templated message through the messaging provider
//   - [Ledger]: Persists and queries the durable send history
//   - [ResultReporter]: Appends audit records and aggregates daily summaries
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations (Brevo HTTP API, WhatsApp Cloud API, SQLite, zerolog, ...).
//
// This separation enables:
//   - Testing application logic with mock implementations
//   - Swapping infrastructure without changing business logic
//   - Clear boundaries and dependency direction
package ports
