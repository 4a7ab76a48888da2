package diskkv

// StorageType selects how save chooses between an inline manifest blob
// and an external payload file.
type StorageType int

const (
	// StorageFile requires every save to supply an external filename.
	StorageFile StorageType = iota
	// StorageSQLite forbids an external filename; every payload is inline.
	StorageSQLite
	// StorageMixed lets the caller decide per save: a non-empty filename
	// stores externally, an empty one stores inline.
	StorageMixed
)

// Item is the logical record behind a manifest row.
type Item struct {
	Key string
	// Value holds the payload. GetInfo never populates Value; only Get
	// does, and only after a successful load.
	Value []byte
	// Filename is non-empty iff the payload is stored externally in the
	// data directory.
	Filename string
	// Size is the byte length of Value, always populated.
	Size int64
	// ModificationTime is wall-clock seconds, set on every save.
	ModificationTime int64
	// LastAccessTime is wall-clock seconds, bumped on every successful
	// Get.
	LastAccessTime int64
	// ExtendedData is an optional opaque byte sequence persisted
	// alongside the record.
	ExtendedData []byte
}

// External reports whether the item's payload is stored as a file
// under the data directory rather than inline in the manifest.
func (it *Item) External() bool { return it.Filename != "" }
