package reservation

import (
	"sort"
	"sync"
)

// tableLocker serializa o check-and-insert por mesa. Dois pedidos
// concorrentes para a mesma mesa nunca passam juntos pelo teste de
// conflito; sem isso ambos leriam "sem conflito" e a mesa ficaria
// duplamente reservada.
type tableLocker struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newTableLocker() *tableLocker {
	return &tableLocker{
		locks: make(map[uint]*sync.Mutex),
	}
}

func (l *tableLocker) lockFor(tableID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if m, ok := l.locks[tableID]; ok {
		return m
	}
	m := &sync.Mutex{}
	l.locks[tableID] = m
	return m
}

// LockAll trava todas as mesas em ordem crescente de id (ordem fixa
// evita deadlock entre pedidos com conjuntos sobrepostos) e devolve a
// função de liberação.
func (l *tableLocker) LockAll(tableIDs []uint) func() {
	ids := make([]uint, len(tableIDs))
	copy(ids, tableIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	held := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		m := l.lockFor(id)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
