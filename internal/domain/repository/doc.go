// Package repository define los contratos de almacenamiento del dominio.
//
// Las implementaciones viven en internal/store/adapters (pg, sqlite, memory)
// y se eligen por nombre vía el registry de internal/store.
//
//	┌───────────────────────────────────────────┐
//	│  subscriptions / newsletter / auth        │
//	└───────────────────────────────────────────┘
//	                     │
//	                     ▼
//	┌───────────────────────────────────────────┐
//	│  domain/repository (interfaces)           │
//	│  SubscriberRepository, CredentialRepo...  │
//	└───────────────────────────────────────────┘
//	                     │
//	       ┌─────────────┼─────────────┐
//	       ▼             ▼             ▼
//	   adapters/pg  adapters/sqlite  adapters/memory
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - ErrNotFound para "no existe", cualquier otro error es falla de storage
package repository
