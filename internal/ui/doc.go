// Package ui contains the Fyne desktop interface: a browser window listing
// catalog entries and a detail window per entry. Every catalog operation
// goes through an orchestrator Session whose results arrive on the Fyne
// main thread, so handlers here touch widgets directly.
package ui
