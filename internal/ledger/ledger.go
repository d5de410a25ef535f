// Package ledger holds the in-memory ordered collection of applications, the
// single source of truth for every view during a session.
package ledger

import (
	"sync"

	"loanflow/internal/models"
)

// Ledger is an owned, session-lived store. Newest entries come first: index 0
// of All is always the most recently created application. There is no removal
// or in-place edit; the ledger is discarded wholesale at logout.
type Ledger struct {
	mu   sync.Mutex
	apps []models.Application
}

// New creates an empty ledger, optionally pre-seeded. The seed is stored
// as-is, assumed to already be in newest-first order.
func New(seed ...models.Application) *Ledger {
	l := &Ledger{}
	if len(seed) > 0 {
		l.apps = append(l.apps, seed...)
	}
	return l
}

// Prepend inserts an application at the front. Atomic with respect to
// concurrent readers.
func (l *Ledger) Prepend(app models.Application) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.apps = append([]models.Application{app}, l.apps...)
}

// All returns a copy of the tracked applications, newest first.
func (l *Ledger) All() []models.Application {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Application, len(l.apps))
	copy(out, l.apps)
	return out
}

// Len returns the number of tracked applications.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.apps)
}

// Replace swaps the full contents, used when restoring a snapshot.
func (l *Ledger) Replace(apps []models.Application) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.apps = make([]models.Application, len(apps))
	copy(l.apps, apps)
}
