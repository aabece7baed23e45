// Package autosave keeps the autosave record current.
//
// Three producers feed the Coordinator: the recurring "autosave" alarm,
// window-closed notifications and the shutdown hook. The Coordinator is the
// only place their overlap is resolved.
package autosave
