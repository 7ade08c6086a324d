// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - SourceLoader: Normalises one SourceDescriptor into Documents
//   - FileParser: Parses a materialised file of one kind
//   - PageFetcher: Retrieves a web page
//   - Splitter: Chunks a Document
//   - EmbeddingService: Maps text to vectors
//   - IndexBuilder / VectorIndex: Builds and searches an immutable index
//   - LLMService: Generates text from a prompt
//   - PromptStore: User-customisable prompt templates
//   - ConfigStore: Application configuration
//   - HistoryStore: Chat history persistence for presentation layers
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, loader or postprocessor package
package driven
