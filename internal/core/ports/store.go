package ports

import "go.trai.ch/gryla/internal/core/domain"

// LinkStore persists the manifest of the last successful link.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type LinkStore interface {
	// Get retrieves the record for a library.
	// Returns nil, nil if not found.
	Get(library string) (*domain.LinkRecord, error)

	// Put stores the record.
	Put(record *domain.LinkRecord) error
}

// Fingerprinter digests the identity of a link: its object set and command line.
type Fingerprinter interface {
	Fingerprint(argv []string) string
}

// LinkStoreOpener opens the link store persisted at a configured path.
type LinkStoreOpener interface {
	Open(path string) (LinkStore, error)
}
