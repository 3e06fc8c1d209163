// Package policy implements the restoration decision for NavKeep.
//
// Decide is a pure function from a persisted snapshot, the current
// time and a fixed configuration to a decision. It performs no IO and
// reads no ambient clock, so every decision is reproducible from its
// inputs. The rules run in a fixed order and the first match wins:
//
//  1. No snapshot: nothing to restore.
//  2. Backgrounded too long: fall back to the default route.
//  3. Saved route is the default: restoring would be a no-op.
//  4. Saved route is not restoration-safe: fall back.
//  5. Otherwise: restore the saved route.
package policy
