/*
Package errors implements custom error interfaces for the ledger engine.

Each error category is declared once as a root error with a unique code.
Runtime errors are created by wrapping a root error with a description of
what went wrong. Wrapping attaches a stack trace the first time it happens,
so that the origin of a failure can always be recovered.

Test for an error category with the root error Is method:

  if errors.ErrNotFound.Is(err) { ... }
*/
package errors
