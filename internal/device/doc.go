// Package device implements the smart-home device model and registry.
//
// A Device is one of a closed set of variants (Light, Thermostat, SmartLock)
// sharing a common control contract. The Registry owns all live devices,
// keyed by ID in insertion order, and persists them as a JSON snapshot file
// through a Store.
//
// Variant dispatch is closed: consumers act through the Registry's typed
// mutators (TurnOn, SetBrightness, ...) and switch on Kind for rendering,
// so adding a variant is a compile-visible change in this package only.
//
// Thread Safety: all Registry methods are safe for concurrent use. Devices
// handed out by Get and All are independent copies, so reading them never
// races with registry mutators and writing to them changes nothing; mutation
// goes through the Registry, which serialises it and re-persists the snapshot.
package device
