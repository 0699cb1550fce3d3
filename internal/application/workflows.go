package application

import "sync"

// Workflow names guarded against re-entry
const (
	WorkflowLogin          = "login"
	WorkflowRegister       = "register"
	WorkflowSaveBook       = "save-book"
	WorkflowDeleteBook     = "delete-book"
	WorkflowTogglePin      = "toggle-pin"
	WorkflowLookup         = "isbn-lookup"
	WorkflowCreateLocation = "create-location"
	WorkflowDeleteLocation = "delete-location"
	WorkflowImport         = "import"
	WorkflowExport         = "export"
	WorkflowProfile        = "profile"
)

// Workflows tracks which workflows are in flight so a second trigger of the
// same workflow is rejected instead of issuing a duplicate request.
type Workflows struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

// NewWorkflows creates an idle guard
func NewWorkflows() *Workflows {
	return &Workflows{inFlight: make(map[string]bool)}
}

// Do runs fn unless a workflow with the same name is running, in which
// case it returns ErrBusy without calling fn.
func (w *Workflows) Do(name string, fn func() error) error {
	if !w.begin(name) {
		return ErrBusy
	}
	defer w.end(name)
	return fn()
}

// Busy reports whether name is in flight
func (w *Workflows) Busy(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight[name]
}

func (w *Workflows) begin(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight[name] {
		return false
	}
	w.inFlight[name] = true
	return true
}

func (w *Workflows) end(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, name)
}
