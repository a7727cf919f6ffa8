package checkout

// KV mirrors the slice of browser local storage the checkout flow touches:
// synchronous string keys, operations that cannot fail.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

type MemoryKV struct {
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryKV) Set(key, value string) {
	m.values[key] = value
}

func (m *MemoryKV) Delete(key string) {
	delete(m.values, key)
}
