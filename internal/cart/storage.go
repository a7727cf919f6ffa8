package cart

// State is the full persisted snapshot of the cart: the line items plus the
// slide-cart visibility flag, exactly what the storefront keeps under its
// local-storage key.
type State struct {
	Items  []Item `json:"items"`
	IsOpen bool   `json:"isOpen"`
}

// Storage persists cart snapshots. The medium is swappable: in-memory for
// tests, a file standing in for browser local storage, or Redis for a
// remote session store.
type Storage interface {
	Load() (State, error)
	Save(state State) error
}

// MemoryStorage keeps the snapshot in process memory.
type MemoryStorage struct {
	state State
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() (State, error) {
	return m.state, nil
}

func (m *MemoryStorage) Save(state State) error {
	m.state = state
	return nil
}
