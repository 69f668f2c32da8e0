// Package normalize converts provider-specific raw observations into the
// canonical scalars the ledgers store: a locale-independent amount for price
// categories, an opaque progress string for status categories.
//
// Parsing is strict. A value that cannot be fully normalized yields an
// *Error and the tracking attempt must abort before any ledger write;
// partially parsed amounts never reach persistence.
package normalize
