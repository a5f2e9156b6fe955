// Package loader performs the checked load sequence for a library:
// resolve the root header symbol, match the preamble byte-for-byte, check
// the library version, run the layout compatibility check, and only then
// invoke the library's root module constructor. A library whose layouts do
// not pass never gets to run any code in the loading process.
//
// Symbol resolution is abstracted behind SymbolSource so the same sequence
// loads WebAssembly libraries and in-process registrations. Callers must
// load a library before using any of its other symbols; the loader
// documents that ordering but cannot enforce it.
package loader
