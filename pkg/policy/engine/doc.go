/*
Package engine implements the policy decision engine: deterministic
evaluation of a rule snapshot against one question and one runtime snapshot.

The engine is a pure function over caller-owned, immutable inputs. It does
no I/O, no logging, keeps no state between calls, and never reads the clock
or a random source, so identical inputs always produce identical outputs
and concurrent calls need no coordination.

Evaluation works in fixed steps:

 1. Disabled rules are filtered out.
 2. The remaining rules are sorted by (priority ascending, id ascending)
    so the result does not depend on storage order.
 3. Every rule is evaluated; conditions are AND-combined. There is no
    short-circuit on first match, with one exception: a matching Block
    rule terminates evaluation immediately with a BlockedError.
 4. Conflicts resolve by action precedence (Block highest, Warn lowest).
    Warn messages and RequireConfirmation prompts from matching rules are
    aggregated even when a higher-precedence action wins the effective
    slot.

A Block outcome is an error, never a Result: callers cannot mistake a
blocked question for a routable one.
*/
package engine
