package closer

import (
	"sync"

	"github.com/meverselabs/metamart/common/rlog"
)

// Closer is Closer inferface
type Closer interface {
	Close()
}

// Manager closes the registered closers in reverse order of Add
type Manager struct {
	sync.Mutex
	isClosed bool
	names    []string
	closers  []Closer
	done     chan struct{}
}

// NewManager returns a Manager
func NewManager() *Manager {
	cm := &Manager{
		done: make(chan struct{}),
	}
	return cm
}

// IsClosed returns it is closed or not
func (cm *Manager) IsClosed() bool {
	cm.Lock()
	defer cm.Unlock()

	return cm.isClosed
}

// Add adds a closer with a name
func (cm *Manager) Add(Name string, c Closer) {
	cm.Lock()
	defer cm.Unlock()

	cm.names = append(cm.names, Name)
	cm.closers = append(cm.closers, c)
}

// CloseAll closes all closers once
func (cm *Manager) CloseAll() {
	cm.Lock()
	if cm.isClosed {
		cm.Unlock()
		return
	}
	cm.isClosed = true
	names := cm.names
	closers := cm.closers
	cm.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		rlog.Println("Close", names[i])
		closers[i].Close()
	}
	close(cm.done)
}

// Wait waits close all
func (cm *Manager) Wait() {
	<-cm.done
}
